// Package pipeline orchestrates one poll cycle: fetch portal items, merge
// them into history, evaluate aggregator candidates, reconcile, persist
// write-on-change, deliver.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/art-dzd/news-bot/internal/config"
	"github.com/art-dzd/news-bot/internal/embedding"
	"github.com/art-dzd/news-bot/internal/history"
	"github.com/art-dzd/news-bot/internal/match"
	"github.com/art-dzd/news-bot/internal/source"
	"github.com/art-dzd/news-bot/internal/telegram"
)

// ErrCycleRunning rejects overlapping cycle invocations; cycles race on the
// caches and on the persisted history files.
var ErrCycleRunning = errors.New("poll cycle already running")

// PortalSource produces portal reference items.
type PortalSource interface {
	Fetch(ctx context.Context) ([]history.ReferenceItem, error)
}

// AggregatorSource produces aggregator candidates.
type AggregatorSource interface {
	Fetch(ctx context.Context) ([]source.Candidate, error)
}

// Sink accepts rendered messages and returns the number delivered.
type Sink interface {
	Send(ctx context.Context, messages []string) int
}

// Result summarizes one poll cycle.
type Result struct {
	PortalFetched    int       `json:"portal_fetched"`
	PortalNew        int       `json:"portal_new"`
	Candidates       int       `json:"candidates"`
	SemanticAccepted int       `json:"semantic_accepted"`
	KeywordAccepted  int       `json:"keyword_accepted"`
	Renamed          int       `json:"renamed"`
	FilteredOut      int       `json:"filtered_out"`
	SkippedSeen      int       `json:"skipped_seen"`
	FlippedSources   int       `json:"flipped_sources"`
	Delivered        int       `json:"delivered"`
	PortalSaved      bool      `json:"portal_saved"`
	AggregatorSaved  bool      `json:"aggregator_saved"`
	FinishedAt       time.Time `json:"finished_at"`
}

type Service struct {
	cfg        *config.Config
	logger     zerolog.Logger
	store      *history.Store
	portal     PortalSource
	aggregator AggregatorSource
	sink       Sink

	candidates *embedding.Cache
	references *embedding.Cache
	scorer     *match.Scorer
	keywords   *match.KeywordList

	running    atomic.Bool
	mu         sync.Mutex
	lastResult *Result
}

func New(
	cfg *config.Config,
	logger zerolog.Logger,
	store *history.Store,
	portal PortalSource,
	aggregator AggregatorSource,
	sink Sink,
	provider embedding.Provider,
	keywords *match.KeywordList,
) *Service {
	candidates := embedding.NewCache(cfg.MaxCacheSize)
	references := embedding.NewCache(cfg.MaxCacheSize)

	snapshotPath := store.CacheSnapshotPath()
	if err := embedding.LoadSnapshot(snapshotPath, candidates, references); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("cache snapshot not restored, starting cold")
	}

	return &Service{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		portal:     portal,
		aggregator: aggregator,
		sink:       sink,
		candidates: candidates,
		references: references,
		scorer:     match.NewScorer(provider, candidates, references, keywords, logger),
		keywords:   keywords,
	}
}

// RunCycle executes one full poll cycle. The merge is computed entirely in
// memory before any write, so a failure partway leaves persisted state as
// of the last successful cycle.
func (s *Service) RunCycle(ctx context.Context) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrCycleRunning
	}
	defer s.running.Store(false)

	var result Result
	var cycleErrs []error

	portalHistory := s.store.LoadPortalHistory()
	aggHistory := s.store.LoadAggregatorHistory()
	analyzed := s.store.LoadAnalyzedURLs()

	fetched, err := s.portal.Fetch(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("portal fetch failed, treating as empty")
		fetched = nil
	}
	result.PortalFetched = len(fetched)

	mergedPortal, newPortal := history.MergePortal(portalHistory, fetched)
	result.PortalNew = len(newPortal)

	pool := history.RecentReferences(mergedPortal, time.Duration(s.cfg.MaxNewsAgeDays)*24*time.Hour)

	candidates, err := s.aggregator.Fetch(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("aggregator fetch failed, treating as empty")
		candidates = nil
	}
	result.Candidates = len(candidates)

	evaluator := &source.Evaluator{
		Scorer:         s.scorer,
		Keywords:       s.keywords,
		Threshold:      s.cfg.SimilarityThreshold,
		TargetLanguage: s.cfg.TargetLanguage,
		Logger:         s.logger,
	}
	eval := evaluator.Evaluate(ctx, candidates, pool, aggHistory, analyzed)
	result.Renamed = eval.Renamed
	result.FilteredOut = eval.FilteredOut
	result.SkippedSeen = eval.SkippedSeen

	mergedAgg, newAgg := history.MergeAggregator(aggHistory, eval.Accepted)
	result.FlippedSources = history.ApplyMatchFlags(mergedPortal, newAgg)

	for _, record := range newAgg {
		if record.MatchType == history.MatchTypeSemantic {
			result.SemanticAccepted++
		} else {
			result.KeywordAccepted++
		}
	}

	if len(newPortal) > 0 || result.FlippedSources > 0 {
		if err := s.store.SavePortalHistory(mergedPortal); err != nil {
			s.logger.Error().Err(err).Msg("portal history save failed")
			cycleErrs = append(cycleErrs, fmt.Errorf("save portal history: %w", err))
		} else {
			result.PortalSaved = true
		}
	}
	if len(newAgg) > 0 || eval.Renamed > 0 {
		if err := s.store.SaveAggregatorHistory(mergedAgg); err != nil {
			s.logger.Error().Err(err).Msg("aggregator history save failed")
			cycleErrs = append(cycleErrs, fmt.Errorf("save aggregator history: %w", err))
		} else {
			result.AggregatorSaved = true
		}
	}
	if analyzed.Dirty() {
		if err := s.store.SaveAnalyzedURLs(analyzed); err != nil {
			s.logger.Error().Err(err).Msg("analyzed URL set save failed")
			cycleErrs = append(cycleErrs, fmt.Errorf("save analyzed urls: %w", err))
		}
	}

	if s.sink != nil {
		messages := make([]string, 0, len(newPortal)+len(newAgg))
		for _, item := range newPortal {
			messages = append(messages, telegram.RenderPortalItem(item))
		}
		for _, record := range newAgg {
			messages = append(messages, telegram.RenderMatchRecord(record))
		}
		if len(messages) > 0 {
			result.Delivered = s.sink.Send(ctx, messages)
		}
	}

	if err := embedding.SaveSnapshot(s.store.CacheSnapshotPath(), s.candidates, s.references); err != nil {
		s.logger.Warn().Err(err).Msg("cache snapshot save failed")
	}

	result.FinishedAt = time.Now().UTC()
	s.setLastResult(result)

	s.logger.Info().
		Int("portal_new", result.PortalNew).
		Int("semantic", result.SemanticAccepted).
		Int("keyword", result.KeywordAccepted).
		Int("renamed", result.Renamed).
		Int("flipped", result.FlippedSources).
		Int("delivered", result.Delivered).
		Msg("poll cycle finished")

	return result, errors.Join(cycleErrs...)
}

// CleanupStats reports a cache pruning pass.
type CleanupStats struct {
	CandidatesBefore int `json:"candidates_before"`
	CandidatesAfter  int `json:"candidates_after"`
	ReferencesBefore int `json:"references_before"`
	ReferencesAfter  int `json:"references_after"`
}

// CleanupCaches prunes both embedding caches, keeping entries still
// referenced by either history (including claimed source URLs) and
// entries younger than the configured age.
func (s *Service) CleanupCaches() CleanupStats {
	maxAge := time.Duration(s.cfg.CacheMaxAgeDays) * 24 * time.Hour
	keep := match.CacheKeepKeys(s.historyURLs())

	stats := CleanupStats{}
	stats.CandidatesBefore, stats.CandidatesAfter = s.candidates.Prune(keep, maxAge)
	stats.ReferencesBefore, stats.ReferencesAfter = s.references.Prune(keep, maxAge)

	s.logger.Info().
		Int("candidates_before", stats.CandidatesBefore).
		Int("candidates_after", stats.CandidatesAfter).
		Int("references_before", stats.ReferencesBefore).
		Int("references_after", stats.ReferencesAfter).
		Msg("embedding caches pruned")

	if err := embedding.SaveSnapshot(s.store.CacheSnapshotPath(), s.candidates, s.references); err != nil {
		s.logger.Warn().Err(err).Msg("cache snapshot save failed after pruning")
	}
	return stats
}

func (s *Service) historyURLs() []string {
	var urls []string
	for _, item := range s.store.LoadPortalHistory() {
		urls = append(urls, item.URL)
	}
	for _, record := range s.store.LoadAggregatorHistory() {
		urls = append(urls, record.URL)
		if record.SourceURL != "" {
			urls = append(urls, record.SourceURL)
		}
	}
	return urls
}

func (s *Service) setLastResult(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = &result
}

// Busy reports whether a cycle is currently in flight.
func (s *Service) Busy() bool {
	return s.running.Load()
}

// LastResult returns the most recent cycle result, if any cycle has run.
func (s *Service) LastResult() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return nil
	}
	copied := *s.lastResult
	return &copied
}

// CacheSizes reports current cache occupancy for the ops surface.
func (s *Service) CacheSizes() (candidates, references int) {
	return s.candidates.Len(), s.references.Len()
}

// CacheAgeCounts reports how many entries exceed the configured pruning age.
func (s *Service) CacheAgeCounts() (candidatesStale, referencesStale int) {
	maxAge := time.Duration(s.cfg.CacheMaxAgeDays) * 24 * time.Hour
	return s.candidates.CountOlderThan(maxAge), s.references.CountOlderThan(maxAge)
}
