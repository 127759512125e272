package match

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/art-dzd/news-bot/internal/embedding"
	"github.com/art-dzd/news-bot/internal/history"
	"github.com/art-dzd/news-bot/internal/textnorm"
)

const (
	cosineEpsilon = 1e-9

	// Bonus tuning for the Russian news corpus: a strong lexical overlap on
	// an already-confident base score gets the smaller boost, everything
	// else the larger one.
	overlapBonusThreshold = 3
	highBaseCutoff        = 0.7
	smallBonus            = 0.10
	largeBonus            = 0.15
)

// Scorer computes the adjusted similarity between an aggregator candidate
// and a portal reference item, caching embeddings along the way. Candidate
// vectors are cached by candidate key, reference vectors by reference URL.
type Scorer struct {
	provider   embedding.Provider
	candidates *embedding.Cache
	references *embedding.Cache
	keywords   *KeywordList
	logger     zerolog.Logger
}

func NewScorer(
	provider embedding.Provider,
	candidates, references *embedding.Cache,
	keywords *KeywordList,
	logger zerolog.Logger,
) *Scorer {
	return &Scorer{
		provider:   provider,
		candidates: candidates,
		references: references,
		keywords:   keywords,
		logger:     logger,
	}
}

// Score returns the adjusted similarity in [0, 1] and the lexical overlap
// count. An embedding failure degrades to a zero score for this comparison
// so one bad call cannot abort a whole matching pass.
func (s *Scorer) Score(ctx context.Context, candidateKey, candidateTitle string, ref history.ReferenceItem) (float64, int) {
	commonWords := textnorm.CommonWordCount(candidateTitle, ref.Title)

	candidateVector, err := s.embedCached(ctx, s.candidates, candidateKey, candidateTitle)
	if err != nil {
		s.logger.Warn().Err(err).Str("candidate", candidateKey).Msg("candidate embedding failed, scoring 0")
		return 0, commonWords
	}

	titleVector, titleSnippetVector, err := s.referenceVectors(ctx, ref)
	if err != nil {
		s.logger.Warn().Err(err).Str("reference", ref.URL).Msg("reference embedding failed, scoring 0")
		return 0, commonWords
	}

	base := (cosine(candidateVector, titleVector) + cosine(candidateVector, titleSnippetVector)) / 2
	if base < 0 {
		base = 0
	}

	bonus := s.bonus(base, commonWords, candidateTitle, ref.Title)
	return math.Min(base*(1+bonus), 1.0), commonWords
}

func (s *Scorer) bonus(base float64, commonWords int, candidateTitle, referenceTitle string) float64 {
	if commonWords >= overlapBonusThreshold {
		if base >= highBaseCutoff {
			return smallBonus
		}
		return largeBonus
	}
	if s.keywords.CoOccurs(textnorm.Normalize(candidateTitle), textnorm.Normalize(referenceTitle)) {
		return largeBonus
	}
	return 0
}

// referenceVectors returns the title and title+snippet vectors for a
// reference item. With no snippet the combined vector falls back to the
// title vector; the snippet-only slot stays a zero vector and cannot
// contribute to the score.
func (s *Scorer) referenceVectors(ctx context.Context, ref history.ReferenceItem) ([]float64, []float64, error) {
	titleVector, err := s.embedCached(ctx, s.references, refCacheKey(ref.URL, "title"), ref.Title)
	if err != nil {
		return nil, nil, err
	}

	if ref.Snippet == "" {
		return titleVector, titleVector, nil
	}

	combined := ref.Title + ". " + ref.Snippet
	titleSnippetVector, err := s.embedCached(ctx, s.references, refCacheKey(ref.URL, "title_snippet"), combined)
	if err != nil {
		return nil, nil, err
	}
	return titleVector, titleSnippetVector, nil
}

func (s *Scorer) embedCached(ctx context.Context, cache *embedding.Cache, key, text string) ([]float64, error) {
	if vector, ok := cache.Get(key); ok {
		return vector, nil
	}
	vector, err := s.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	cache.Put(key, vector)
	return vector, nil
}

func refCacheKey(url, part string) string {
	return url + "|" + part
}

// CacheKeepKeys expands history URLs into the full set of cache keys the
// pruning allowlist must retain: the URL itself (candidate cache) plus its
// reference-vector variants.
func CacheKeepKeys(urls []string) map[string]struct{} {
	keep := make(map[string]struct{}, len(urls)*3)
	for _, u := range urls {
		if u == "" {
			continue
		}
		keep[u] = struct{}{}
		keep[refCacheKey(u, "title")] = struct{}{}
		keep[refCacheKey(u, "title_snippet")] = struct{}{}
	}
	return keep
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + cosineEpsilon)
}
