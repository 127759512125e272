package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	historyschema "github.com/art-dzd/news-bot/schema"
)

const (
	portalHistoryFile     = "portal_history.json"
	aggregatorHistoryFile = "aggregator_history.json"
	analyzedURLsFile      = "analyzed_urls.json"
	cacheSnapshotFile     = "embedding_cache.json"
)

// Store persists engine state as JSON files under a single directory.
// Writes are atomic (write-then-rename); unreadable or invalid files
// degrade to empty state with a logged warning, never an error to the
// engine.
type Store struct {
	mu          sync.Mutex
	dir         string
	maxAnalyzed int
	logger      zerolog.Logger
}

func NewStore(dir string, maxAnalyzed int, logger zerolog.Logger) *Store {
	return &Store{
		dir:         dir,
		maxAnalyzed: maxAnalyzed,
		logger:      logger,
	}
}

func (s *Store) CacheSnapshotPath() string {
	return filepath.Join(s.dir, cacheSnapshotFile)
}

func (s *Store) LoadPortalHistory() []ReferenceItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.readFile(portalHistoryFile)
	if !ok {
		return nil
	}
	if err := historyschema.ValidatePortalHistory(raw); err != nil {
		s.logger.Warn().Err(err).Str("file", portalHistoryFile).Msg("portal history failed validation, starting empty")
		return nil
	}

	var items []ReferenceItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn().Err(err).Str("file", portalHistoryFile).Msg("portal history unreadable, starting empty")
		return nil
	}
	return items
}

func (s *Store) SavePortalHistory(items []ReferenceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(portalHistoryFile, items)
}

func (s *Store) LoadAggregatorHistory() []MatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.readFile(aggregatorHistoryFile)
	if !ok {
		return nil
	}
	if err := historyschema.ValidateAggregatorHistory(raw); err != nil {
		s.logger.Warn().Err(err).Str("file", aggregatorHistoryFile).Msg("aggregator history failed validation, starting empty")
		return nil
	}

	var records []MatchRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn().Err(err).Str("file", aggregatorHistoryFile).Msg("aggregator history unreadable, starting empty")
		return nil
	}
	return records
}

func (s *Store) SaveAggregatorHistory(records []MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(aggregatorHistoryFile, records)
}

func (s *Store) LoadAnalyzedURLs() *AnalyzedURLSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.readFile(analyzedURLsFile)
	if !ok {
		return NewAnalyzedURLSet(s.maxAnalyzed, nil)
	}

	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		s.logger.Warn().Err(err).Str("file", analyzedURLsFile).Msg("analyzed URL set unreadable, starting empty")
		return NewAnalyzedURLSet(s.maxAnalyzed, nil)
	}
	return NewAnalyzedURLSet(s.maxAnalyzed, urls)
}

func (s *Store) SaveAnalyzedURLs(set *AnalyzedURLSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeJSON(analyzedURLsFile, set.URLs()); err != nil {
		return err
	}
	set.MarkClean()
	return nil
}

func (s *Store) readFile(name string) ([]byte, bool) {
	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("file", name).Msg("state file unreadable, starting empty")
		}
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}
	return raw, true
}

func (s *Store) writeJSON(name string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
