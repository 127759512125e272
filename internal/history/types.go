// Package history owns the persisted engine state: portal article history,
// aggregator match records, and the analyzed-URL set, plus the merge logic
// that reconciles freshly fetched items against them.
package history

import (
	"encoding/json"
	"time"

	"github.com/art-dzd/news-bot/internal/globaltime"
)

const (
	MatchTypeSemantic = "semantic"
	MatchTypeKeyword  = "keyword"
)

// ReferenceItem is a portal article tracked in history. InTargetFeed flips
// to true once an aggregator item has been matched back to it.
type ReferenceItem struct {
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Snippet      string    `json:"snippet,omitempty"`
	AddedAt      time.Time `json:"added_at"`
	InTargetFeed bool      `json:"in_target_feed"`
}

// MatchRecord is one accepted aggregator item. Append-only, except that a
// title reappearing under a new URL rewrites the existing record's URL and
// timestamp in place.
type MatchRecord struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	AddedAt         time.Time `json:"added_at"`
	SourceURL       string    `json:"source_url,omitempty"`
	SourceTitle     string    `json:"source_title,omitempty"`
	SourceSnippet   string    `json:"source_snippet,omitempty"`
	MatchType       string    `json:"match_type"`
	SimilarityScore float64   `json:"similarity_score,omitempty"`
	CommonWordCount int       `json:"common_word_count,omitempty"`
	MatchedKeywords []string  `json:"matched_keywords,omitempty"`
}

// Older state files carried records with missing fields; defaulting happens
// once here, never ad hoc at use sites.

func (r *ReferenceItem) UnmarshalJSON(data []byte) error {
	type alias ReferenceItem
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.AddedAt.IsZero() {
		raw.AddedAt = globaltime.UTC()
	}
	*r = ReferenceItem(raw)
	return nil
}

func (m *MatchRecord) UnmarshalJSON(data []byte) error {
	type alias MatchRecord
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.AddedAt.IsZero() {
		raw.AddedAt = globaltime.UTC()
	}
	if raw.MatchType == "" {
		if raw.SourceURL != "" {
			raw.MatchType = MatchTypeSemantic
		} else {
			raw.MatchType = MatchTypeKeyword
		}
	}
	*m = MatchRecord(raw)
	return nil
}

// RecentReferences filters items to those added within maxAge of now; the
// matcher never compares candidates against stale portal articles.
func RecentReferences(items []ReferenceItem, maxAge time.Duration) []ReferenceItem {
	cutoff := globaltime.UTC().Add(-maxAge)
	recent := make([]ReferenceItem, 0, len(items))
	for _, item := range items {
		if item.AddedAt.After(cutoff) {
			recent = append(recent, item)
		}
	}
	return recent
}
