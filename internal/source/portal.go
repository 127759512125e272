// Package source fetches raw items from the two monitored feeds and runs
// the aggregator-side evaluation pipeline.
package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/art-dzd/news-bot/internal/globaltime"
	"github.com/art-dzd/news-bot/internal/history"
	"github.com/art-dzd/news-bot/internal/reader"
)

const snippetMaxChars = 300

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// PortalFetcher reads the portal RSS/news feeds and produces reference
// items keyed by normalized URL.
type PortalFetcher struct {
	feedURLs      []string
	parser        *gofeed.Parser
	logger        zerolog.Logger
	enrichSnippet bool
	readerOpts    reader.FetchOptions
}

func NewPortalFetcher(feedURLs []string, enrichSnippet bool, logger zerolog.Logger) *PortalFetcher {
	return &PortalFetcher{
		feedURLs:      feedURLs,
		parser:        gofeed.NewParser(),
		logger:        logger,
		enrichSnippet: enrichSnippet,
	}
}

// Fetch pulls every configured feed and returns deduplicated reference
// items. One failing feed is logged and skipped; the call fails only when
// every feed fails.
func (f *PortalFetcher) Fetch(ctx context.Context) ([]history.ReferenceItem, error) {
	var items []history.ReferenceItem
	seen := make(map[string]struct{})
	failures := 0

	for _, feedURL := range f.feedURLs {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			failures++
			f.logger.Error().Err(err).Str("feed", feedURL).Msg("portal feed fetch failed")
			continue
		}

		for _, item := range buildReferenceItems(feed) {
			key := history.NormalizeURL(item.URL)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if item.Snippet == "" && f.enrichSnippet {
				snippet, err := reader.FetchSnippet(ctx, item.URL, snippetMaxChars, f.readerOpts)
				if err != nil {
					f.logger.Debug().Err(err).Str("url", item.URL).Msg("snippet extraction failed")
				} else {
					item.Snippet = snippet
				}
			}
			items = append(items, item)
		}
	}

	if failures > 0 && failures == len(f.feedURLs) {
		return nil, fmt.Errorf("all %d portal feeds failed", failures)
	}
	return items, nil
}

func buildReferenceItems(feed *gofeed.Feed) []history.ReferenceItem {
	if feed == nil {
		return nil
	}

	items := make([]history.ReferenceItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		title := strings.TrimSpace(entry.Title)
		link := history.NormalizeURL(entry.Link)
		if title == "" || link == "" {
			continue
		}

		snippet := stripHTML(entry.Description)
		if snippet == "" {
			snippet = stripHTML(entry.Content)
		}
		if truncated, _ := reader.TruncateText(snippet, snippetMaxChars); truncated != "" {
			snippet = truncated
		}

		items = append(items, history.ReferenceItem{
			URL:     link,
			Title:   title,
			Snippet: snippet,
			AddedAt: globaltime.UTC(),
		})
	}
	return items
}

func stripHTML(raw string) string {
	withoutTags := htmlTagPattern.ReplaceAllString(raw, " ")
	return strings.Join(strings.Fields(withoutTags), " ")
}
