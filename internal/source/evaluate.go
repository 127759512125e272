package source

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/art-dzd/news-bot/internal/globaltime"
	"github.com/art-dzd/news-bot/internal/history"
	"github.com/art-dzd/news-bot/internal/langdetect"
	"github.com/art-dzd/news-bot/internal/match"
	"github.com/art-dzd/news-bot/internal/textnorm"
)

// maxRecordedKeywords bounds how many triggering keywords a record keeps.
const maxRecordedKeywords = 5

// Evaluator classifies aggregator candidates against the portal reference
// pool: semantic match first, keyword fallback second, everything else is
// only remembered as analyzed.
type Evaluator struct {
	Scorer         *match.Scorer
	Keywords       *match.KeywordList
	Threshold      float64
	TargetLanguage string
	Logger         zerolog.Logger
}

// EvalResult summarizes one evaluation pass. Renamed counts history records
// rewritten in place; those must be persisted but never delivered.
type EvalResult struct {
	Accepted    []history.MatchRecord
	Renamed     int
	FilteredOut int
	SkippedSeen int
}

// Evaluate processes candidates in feed order. aggHistory is mutated only
// by rename rewrites; analyzed receives every processed URL regardless of
// outcome. The claims rule considers both persisted records and records
// accepted earlier in this same pass.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	candidates []Candidate,
	pool []history.ReferenceItem,
	aggHistory []history.MatchRecord,
	analyzed *history.AnalyzedURLSet,
) EvalResult {
	var result EvalResult

	knownURLs := make(map[string]struct{}, len(aggHistory))
	byNormalizedTitle := make(map[string]int, len(aggHistory))
	for i, record := range aggHistory {
		knownURLs[record.URL] = struct{}{}
		byNormalizedTitle[textnorm.Normalize(record.Title)] = i
	}

	claimPool := aggHistory

	for _, candidate := range candidates {
		if analyzed.Contains(candidate.URL) {
			result.SkippedSeen++
			continue
		}

		normTitle := textnorm.Normalize(candidate.Title)

		// Same story reposted under a new URL: correct the record in
		// place instead of treating it as new content.
		if i, ok := byNormalizedTitle[normTitle]; ok && aggHistory[i].URL != candidate.URL {
			e.Logger.Info().
				Str("old_url", aggHistory[i].URL).
				Str("new_url", candidate.URL).
				Msg("aggregator item renamed, rewriting record")
			delete(knownURLs, aggHistory[i].URL)
			aggHistory[i].URL = candidate.URL
			aggHistory[i].AddedAt = globaltime.UTC()
			knownURLs[candidate.URL] = struct{}{}
			result.Renamed++
			analyzed.Add(candidate.URL)
			continue
		}

		if _, known := knownURLs[candidate.URL]; known {
			analyzed.Add(candidate.URL)
			continue
		}

		if !langdetect.Matches(candidate.Title, e.TargetLanguage) {
			result.FilteredOut++
			analyzed.Add(candidate.URL)
			continue
		}

		best := e.Scorer.FindBestMatch(ctx, candidate.URL, candidate.Title, pool)

		switch {
		case best.Reference != nil && best.Score >= e.Threshold:
			if match.ClaimedStronger(claimPool, best.Reference.URL, best.Score) {
				e.Logger.Debug().
					Str("url", candidate.URL).
					Str("source", best.Reference.URL).
					Float64("score", best.Score).
					Msg("source already claimed by a stronger match")
				result.FilteredOut++
				break
			}
			record := history.MatchRecord{
				URL:             candidate.URL,
				Title:           candidate.Title,
				AddedAt:         globaltime.UTC(),
				SourceURL:       best.Reference.URL,
				SourceTitle:     best.Reference.Title,
				SourceSnippet:   best.Reference.Snippet,
				MatchType:       history.MatchTypeSemantic,
				SimilarityScore: best.Score,
				CommonWordCount: best.CommonWords,
			}
			result.Accepted = append(result.Accepted, record)
			claimPool = append(claimPool, record)
			e.Logger.Info().
				Str("url", candidate.URL).
				Str("source", best.Reference.URL).
				Float64("score", best.Score).
				Msg("semantic match accepted")

		default:
			keywords := e.Keywords.Match(normTitle)
			if len(keywords) > 0 {
				if len(keywords) > maxRecordedKeywords {
					keywords = keywords[:maxRecordedKeywords]
				}
				result.Accepted = append(result.Accepted, history.MatchRecord{
					URL:             candidate.URL,
					Title:           candidate.Title,
					AddedAt:         globaltime.UTC(),
					MatchType:       history.MatchTypeKeyword,
					MatchedKeywords: keywords,
				})
				e.Logger.Info().
					Str("url", candidate.URL).
					Strs("keywords", keywords).
					Msg("keyword match accepted")
			} else {
				result.FilteredOut++
			}
		}

		analyzed.Add(candidate.URL)
	}

	return result
}
