package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

const (
	aggregatorFetchTimeout = 20 * time.Second
	aggregatorBodyLimit    = 4 * 1024 * 1024
	aggregatorUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) news-bot/1.0"
)

// Candidate is a transient aggregator item.
type Candidate struct {
	URL   string
	Title string
}

// AggregatorFetcher extracts article cards from the aggregator page.
type AggregatorFetcher struct {
	pageURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewAggregatorFetcher(pageURL string, logger zerolog.Logger) *AggregatorFetcher {
	return &AggregatorFetcher{
		pageURL: pageURL,
		client:  &http.Client{Timeout: aggregatorFetchTimeout},
		logger:  logger,
	}
}

func (f *AggregatorFetcher) Fetch(ctx context.Context) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build aggregator request: %w", err)
	}
	req.Header.Set("User-Agent", aggregatorUserAgent)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch aggregator page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("aggregator page status %d", resp.StatusCode)
	}

	base, err := url.Parse(f.pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse aggregator url: %w", err)
	}

	candidates, err := parseCandidates(io.LimitReader(resp.Body, aggregatorBodyLimit), base)
	if err != nil {
		return nil, err
	}

	f.logger.Debug().Int("candidates", len(candidates)).Msg("aggregator page parsed")
	return candidates, nil
}

// parseCandidates walks the page and collects article anchors (/a/... paths)
// with non-empty titles, preserving document order and deduplicating by URL.
func parseCandidates(r io.Reader, base *url.URL) ([]Candidate, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse aggregator HTML: %w", err)
	}

	var candidates []Candidate
	seen := make(map[string]struct{})

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			href := attrValue(node, "href")
			link := resolveArticleLink(base, href)
			if link != "" {
				title := strings.Join(strings.Fields(nodeText(node)), " ")
				if title != "" {
					if _, dup := seen[link]; !dup {
						seen[link] = struct{}{}
						candidates = append(candidates, Candidate{URL: link, Title: title})
					}
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return candidates, nil
}

func resolveArticleLink(base *url.URL, href string) string {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if !strings.HasPrefix(resolved.Path, "/a/") {
		return ""
	}
	// Tracking parameters would give the same article a new identity each
	// cycle, defeating the analyzed-URL skip and history dedupe.
	resolved.RawQuery = ""
	resolved.Fragment = ""
	return resolved.String()
}

func attrValue(node *html.Node, name string) string {
	for _, attr := range node.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func nodeText(node *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return b.String()
}
