package history

// AnalyzedURLSet is a bounded, insertion-ordered set of aggregator URLs
// already evaluated in some prior cycle, kept so their embeddings and
// scores are never recomputed. When the cap is exceeded the oldest URLs
// are trimmed first.
type AnalyzedURLSet struct {
	max   int
	urls  []string
	seen  map[string]struct{}
	dirty bool
}

func NewAnalyzedURLSet(max int, urls []string) *AnalyzedURLSet {
	if max < 1 {
		max = 1
	}
	set := &AnalyzedURLSet{
		max:  max,
		urls: make([]string, 0, len(urls)),
		seen: make(map[string]struct{}, len(urls)),
	}
	for _, u := range urls {
		set.add(u)
	}
	set.dirty = false
	return set
}

func (s *AnalyzedURLSet) Contains(url string) bool {
	_, ok := s.seen[url]
	return ok
}

// Add records a URL as analyzed. Returns true when the set changed.
func (s *AnalyzedURLSet) Add(url string) bool {
	return s.add(url)
}

func (s *AnalyzedURLSet) add(url string) bool {
	if url == "" {
		return false
	}
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.urls = append(s.urls, url)
	s.seen[url] = struct{}{}
	s.dirty = true

	for len(s.urls) > s.max {
		oldest := s.urls[0]
		s.urls = s.urls[1:]
		delete(s.seen, oldest)
	}
	return true
}

func (s *AnalyzedURLSet) Len() int { return len(s.urls) }

// URLs returns the set in insertion order, oldest first.
func (s *AnalyzedURLSet) URLs() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}

// Dirty reports whether the set changed since construction or the last
// MarkClean, driving write-on-change persistence.
func (s *AnalyzedURLSet) Dirty() bool { return s.dirty }

func (s *AnalyzedURLSet) MarkClean() { s.dirty = false }
