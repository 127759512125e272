// Package telegram delivers rendered notifications through the Bot API.
package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/art-dzd/news-bot/internal/history"
)

const aggregatorBanner = "🔥 <b>ТОП ДЗЕНА</b>"

// RenderPortalItem formats a portal article notification: title, snippet,
// link. Telegram HTML parse mode.
func RenderPortalItem(item history.ReferenceItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(item.Title))
	if item.Snippet != "" {
		fmt.Fprintf(&b, "\n%s\n", html.EscapeString(item.Snippet))
	}
	fmt.Fprintf(&b, "\n<a href=\"%s\">Читать на портале</a>", item.URL)
	return b.String()
}

// RenderMatchRecord formats an aggregator notification with the banner and
// either the matched source plus similarity, or the triggering keywords.
func RenderMatchRecord(record history.MatchRecord) string {
	var b strings.Builder
	b.WriteString(aggregatorBanner)
	b.WriteString("\n")
	fmt.Fprintf(&b, "<a href=\"%s\">%s</a>\n", record.URL, html.EscapeString(record.Title))

	switch record.MatchType {
	case history.MatchTypeSemantic:
		if record.SourceURL != "" {
			fmt.Fprintf(&b, "\nИсточник: <a href=\"%s\">%s</a>\n",
				record.SourceURL, html.EscapeString(record.SourceTitle))
			fmt.Fprintf(&b, "Сходство: %.2f", record.SimilarityScore)
		}
	case history.MatchTypeKeyword:
		keywords := record.MatchedKeywords
		if len(keywords) > 3 {
			keywords = keywords[:3]
		}
		if len(keywords) > 0 {
			fmt.Fprintf(&b, "\nКлючевые слова: %s", html.EscapeString(strings.Join(keywords, ", ")))
		}
	}
	return b.String()
}
