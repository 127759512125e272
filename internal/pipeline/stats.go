package pipeline

import "github.com/art-dzd/news-bot/internal/history"

// StatsReport aggregates persisted and in-memory state for the ops surface
// and the stats command.
type StatsReport struct {
	PortalItems     int     `json:"portal_items"`
	PortalInFeed    int     `json:"portal_in_feed"`
	MatchRecords    int     `json:"match_records"`
	SemanticMatches int     `json:"semantic_matches"`
	KeywordMatches  int     `json:"keyword_matches"`
	AnalyzedURLs    int     `json:"analyzed_urls"`
	CandidateCache  int     `json:"candidate_cache"`
	ReferenceCache  int     `json:"reference_cache"`
	LastCycle       *Result `json:"last_cycle,omitempty"`
}

// Stats reads both histories and reports totals alongside cache occupancy.
func (s *Service) Stats() StatsReport {
	report := StatsReport{
		CandidateCache: s.candidates.Len(),
		ReferenceCache: s.references.Len(),
		LastCycle:      s.LastResult(),
	}

	portal := s.store.LoadPortalHistory()
	report.PortalItems = len(portal)
	for _, item := range portal {
		if item.InTargetFeed {
			report.PortalInFeed++
		}
	}

	records := s.store.LoadAggregatorHistory()
	report.MatchRecords = len(records)
	for _, record := range records {
		switch record.MatchType {
		case history.MatchTypeSemantic:
			report.SemanticMatches++
		case history.MatchTypeKeyword:
			report.KeywordMatches++
		}
	}

	report.AnalyzedURLs = s.store.LoadAnalyzedURLs().Len()
	return report
}
