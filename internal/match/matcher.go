package match

import (
	"context"

	"github.com/art-dzd/news-bot/internal/history"
)

// BestMatch is the winning reference for a candidate, if any.
type BestMatch struct {
	Reference   *history.ReferenceItem
	Score       float64
	CommonWords int
}

// FindBestMatch scores the candidate against every reference in the pool
// and keeps the strictly greatest score; ties keep the first-seen item.
// Acceptance against the similarity threshold is the caller's decision.
func (s *Scorer) FindBestMatch(ctx context.Context, candidateKey, candidateTitle string, pool []history.ReferenceItem) BestMatch {
	var best BestMatch
	for i := range pool {
		score, commonWords := s.Score(ctx, candidateKey, candidateTitle, pool[i])
		if best.Reference == nil || score > best.Score {
			best = BestMatch{
				Reference:   &pool[i],
				Score:       score,
				CommonWords: commonWords,
			}
		}
	}
	return best
}

// ClaimedStronger reports whether a prior semantic record already claims
// the same source URL with a strictly higher score. A popular portal
// article keeps only its single strongest aggregator match: later, weaker
// candidates are suppressed. Prior weaker claims are deliberately never
// retracted when a stronger candidate appears; first strong match wins.
func ClaimedStronger(records []history.MatchRecord, sourceURL string, score float64) bool {
	if sourceURL == "" {
		return false
	}
	key := history.NormalizeURL(sourceURL)
	for _, record := range records {
		if record.MatchType != history.MatchTypeSemantic {
			continue
		}
		if history.NormalizeURL(record.SourceURL) != key {
			continue
		}
		if record.SimilarityScore > score {
			return true
		}
	}
	return false
}
