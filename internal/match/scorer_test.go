package match

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/art-dzd/news-bot/internal/embedding"
	"github.com/art-dzd/news-bot/internal/history"
)

// stubProvider returns canned vectors per exact input text and fails for
// anything unknown.
type stubProvider struct {
	vectors map[string][]float64
}

func (p *stubProvider) Embed(_ context.Context, text string) ([]float64, error) {
	vector, ok := p.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return vector, nil
}

func newTestScorer(vectors map[string][]float64, keywords *KeywordList) *Scorer {
	if keywords == nil {
		keywords = NewKeywordList(nil)
	}
	return NewScorer(
		&stubProvider{vectors: vectors},
		embedding.NewCache(100),
		embedding.NewCache(100),
		keywords,
		zerolog.Nop(),
	)
}

func angled(cos float64) []float64 {
	return []float64{cos, math.Sqrt(1 - cos*cos)}
}

func ref(url, title, snippet string) history.ReferenceItem {
	return history.ReferenceItem{
		URL:     url,
		Title:   title,
		Snippet: snippet,
		AddedAt: time.Now().UTC(),
	}
}

func TestScoreRussianHeadlineScenario(t *testing.T) {
	t.Parallel()

	candidateTitle := "В Москве открылась поликлиника"
	referenceTitle := "Открылась новая поликлиника в Москве"
	combined := referenceTitle + ". " + "Новая поликлиника приняла первых пациентов"

	// Base cosine just under 0.7 so the overlap bonus is the large one.
	scorer := newTestScorer(map[string][]float64{
		candidateTitle: {1, 0},
		referenceTitle: angled(0.69),
		combined:       angled(0.69),
	}, nil)

	reference := ref("https://www.mos.ru/news/a/", referenceTitle, "Новая поликлиника приняла первых пациентов")
	score, commonWords := scorer.Score(context.Background(), "cand-url", candidateTitle, reference)

	if commonWords < 3 {
		t.Fatalf("commonWords = %d, want >= 3", commonWords)
	}
	want := math.Min(0.69*1.15, 1.0)
	if math.Abs(score-want) > 1e-6 {
		t.Fatalf("score = %f, want about %f", score, want)
	}
	if score < 0.79 {
		t.Fatalf("scenario must clear the default threshold, got %f", score)
	}
}

func TestScoreSmallBonusOnConfidentBase(t *testing.T) {
	t.Parallel()

	candidateTitle := "В Москве открылась поликлиника"
	referenceTitle := "Открылась новая поликлиника в Москве"

	scorer := newTestScorer(map[string][]float64{
		candidateTitle: {1, 0},
		referenceTitle: angled(0.8),
	}, nil)

	// No snippet: the combined vector falls back to the title vector.
	score, _ := scorer.Score(context.Background(), "cand-url", candidateTitle, ref("u", referenceTitle, ""))

	want := 0.8 * 1.10
	if math.Abs(score-want) > 1e-6 {
		t.Fatalf("score = %f, want about %f", score, want)
	}
}

func TestScoreKeywordCoOccurrenceBonus(t *testing.T) {
	t.Parallel()

	candidateTitle := "Стартовала вакцинация"
	referenceTitle := "Вакцинация идёт полным ходом"

	keywords := NewKeywordList([]string{"вакцинация"})
	scorer := newTestScorer(map[string][]float64{
		candidateTitle: {1, 0},
		referenceTitle: angled(0.6),
	}, keywords)

	score, commonWords := scorer.Score(context.Background(), "cand-url", candidateTitle, ref("u", referenceTitle, ""))

	if commonWords >= 3 {
		t.Fatalf("test setup broken: lexical overlap %d must stay below 3", commonWords)
	}
	want := 0.6 * 1.15
	if math.Abs(score-want) > 1e-6 {
		t.Fatalf("score = %f, want about %f", score, want)
	}
}

func TestScoreCapsAtOne(t *testing.T) {
	t.Parallel()

	candidateTitle := "Открылась новая поликлиника в Москве рядом"
	referenceTitle := "Открылась новая поликлиника в Москве"

	scorer := newTestScorer(map[string][]float64{
		candidateTitle: {1, 0},
		referenceTitle: angled(0.95),
	}, nil)

	score, _ := scorer.Score(context.Background(), "cand-url", candidateTitle, ref("u", referenceTitle, ""))
	if score > 1.0 {
		t.Fatalf("score = %f, must never exceed 1.0", score)
	}
}

func TestScoreClampsNegativeBase(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(map[string][]float64{
		"кандидат текст": {1, 0},
		"референс текст": {-1, 0},
	}, nil)

	score, _ := scorer.Score(context.Background(), "cand-url", "кандидат текст", ref("u", "референс текст", ""))
	if score != 0 {
		t.Fatalf("score = %f, want 0 for anti-correlated vectors", score)
	}
}

func TestScoreEmbedFailureDegradesToZero(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(map[string][]float64{}, nil)

	score, _ := scorer.Score(context.Background(), "cand-url", "неизвестный текст", ref("u", "другой текст", ""))
	if score != 0 {
		t.Fatalf("score = %f, want 0 on embedding failure", score)
	}
}

func TestScoreUsesCacheAcrossCalls(t *testing.T) {
	t.Parallel()

	candidateTitle := "кандидат"
	referenceTitle := "референс один два три"

	vectors := map[string][]float64{
		candidateTitle: {1, 0},
		referenceTitle: angled(0.5),
	}
	scorer := newTestScorer(vectors, nil)
	reference := ref("u", referenceTitle, "")

	first, _ := scorer.Score(context.Background(), "cand-url", candidateTitle, reference)

	// Removing the provider vectors must not matter once cached.
	delete(vectors, candidateTitle)
	delete(vectors, referenceTitle)

	second, _ := scorer.Score(context.Background(), "cand-url", candidateTitle, reference)
	if first != second || second == 0 {
		t.Fatalf("cached rescore mismatch: first=%f second=%f", first, second)
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	if got := cosine([]float64{1, 0}, []float64{1, 0, 0}); got != 0 {
		t.Fatalf("mismatched lengths must score 0, got %f", got)
	}
	if got := cosine(nil, []float64{1}); got != 0 {
		t.Fatalf("empty vector must score 0, got %f", got)
	}
	if got := cosine([]float64{0, 0}, []float64{0, 0}); got != 0 {
		t.Fatalf("zero vectors must score 0, got %f", got)
	}
	if got := cosine([]float64{1, 0}, []float64{1, 0}); math.Abs(got-1) > 1e-6 {
		t.Fatalf("identical vectors must score about 1, got %f", got)
	}
}
