package source

import (
	"net/url"
	"strings"
	"testing"
)

const aggregatorPage = `
<html><body>
  <div class="feed">
    <a href="/a/abc123"><span>Первый  материал</span></a>
    <a href="https://dzen.ru/a/def456">Второй материал</a>
    <a href="/a/abc123">Первый материал (дубль)</a>
    <a href="/a/abc123?from=feed&amp;utm_source=main">Первый материал (трекинг)</a>
    <a href="/news/rubric/politics">Рубрика</a>
    <a href="mailto:editor@example.com">Почта</a>
    <a href="/a/empty"><img src="x.png"/></a>
  </div>
</body></html>`

func TestParseCandidates(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://dzen.ru/")
	if err != nil {
		t.Fatalf("parse base: %v", err)
	}

	candidates, err := parseCandidates(strings.NewReader(aggregatorPage), base)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2: %+v", len(candidates), candidates)
	}
	if candidates[0].URL != "https://dzen.ru/a/abc123" {
		t.Fatalf("relative link not resolved: %q", candidates[0].URL)
	}
	if candidates[0].Title != "Первый материал" {
		t.Fatalf("title whitespace not collapsed: %q", candidates[0].Title)
	}
	if candidates[1].URL != "https://dzen.ru/a/def456" {
		t.Fatalf("absolute link mangled: %q", candidates[1].URL)
	}
}

func TestResolveArticleLink(t *testing.T) {
	t.Parallel()

	base, _ := url.Parse("https://dzen.ru/")

	cases := []struct {
		href string
		want string
	}{
		{"/a/xyz", "https://dzen.ru/a/xyz"},
		{"https://dzen.ru/a/xyz#comments", "https://dzen.ru/a/xyz"},
		{"/a/xyz?from=feed&utm_source=main", "https://dzen.ru/a/xyz"},
		{"https://dzen.ru/a/xyz?clid=101", "https://dzen.ru/a/xyz"},
		{"/news/rubric", ""},
		{"javascript:void(0)", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := resolveArticleLink(base, tc.href); got != tc.want {
			t.Fatalf("resolveArticleLink(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}
