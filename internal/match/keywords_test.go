package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/art-dzd/news-bot/internal/textnorm"
)

func TestLoadKeywords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "topics:\n  - Поликлиника\n  - скорая помощь\n  - поликлиника\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write keywords: %v", err)
	}

	keywords, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords: %v", err)
	}
	if keywords.Len() != 2 {
		t.Fatalf("duplicates must collapse after normalization, got %d phrases", keywords.Len())
	}
}

func TestLoadKeywordsMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadKeywords(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestKeywordMatchSingleWordWholeToken(t *testing.T) {
	t.Parallel()

	keywords := NewKeywordList([]string{"врач"})

	if got := keywords.Match(textnorm.Normalize("Врач принял пациентов")); len(got) != 1 {
		t.Fatalf("whole token must match, got %v", got)
	}
	if got := keywords.Match(textnorm.Normalize("Врачи приняли пациентов")); len(got) != 0 {
		t.Fatalf("single-word phrase must not match inside a longer token, got %v", got)
	}
}

func TestKeywordMatchPhraseSubstring(t *testing.T) {
	t.Parallel()

	keywords := NewKeywordList([]string{"скорая помощь"})

	if got := keywords.Match(textnorm.Normalize("Новая подстанция скорая помощь открыта")); len(got) != 1 {
		t.Fatalf("phrase substring must match, got %v", got)
	}
}

func TestKeywordMatchPhrasePrefixWindow(t *testing.T) {
	t.Parallel()

	keywords := NewKeywordList([]string{"скорая помощь"})

	// Inflected form: matches via consecutive 4-rune prefixes.
	if got := keywords.Match(textnorm.Normalize("Подстанция скорой помощи открыта")); len(got) != 1 {
		t.Fatalf("inflected phrase must match via prefix window, got %v", got)
	}
	if got := keywords.Match(textnorm.Normalize("Скорая выехала без помощи")); len(got) != 0 {
		t.Fatalf("non-consecutive words must not match, got %v", got)
	}
}

func TestKeywordCoOccurs(t *testing.T) {
	t.Parallel()

	keywords := NewKeywordList([]string{"вакцинация"})

	a := textnorm.Normalize("Стартовала вакцинация от гриппа")
	b := textnorm.Normalize("Вакцинация продолжается в поликлиниках")
	c := textnorm.Normalize("Открыт новый парк")

	if !keywords.CoOccurs(a, b) {
		t.Fatalf("phrase present in both titles must co-occur")
	}
	if keywords.CoOccurs(a, c) {
		t.Fatalf("phrase present in one title must not co-occur")
	}
}

func TestKeywordCoOccursIsStrictSubstring(t *testing.T) {
	t.Parallel()

	keywords := NewKeywordList([]string{"скорая помощь"})

	a := textnorm.Normalize("Вызов скорой помощи на дом")
	b := textnorm.Normalize("Работа скорой помощи ночью")

	// The inflected form matches the fallback classifier...
	if got := keywords.Match(a); len(got) != 1 {
		t.Fatalf("inflected phrase must still match for classification, got %v", got)
	}
	// ...but the bonus path requires the exact phrase substring.
	if keywords.CoOccurs(a, b) {
		t.Fatalf("inflected phrase must not trigger the co-occurrence bonus")
	}

	exact := textnorm.Normalize("Скорая помощь приедет быстрее")
	other := textnorm.Normalize("Новая скорая помощь для округа")
	if !keywords.CoOccurs(exact, other) {
		t.Fatalf("exact phrase in both titles must co-occur")
	}
}
