package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/art-dzd/news-bot/internal/cli"
	"github.com/art-dzd/news-bot/internal/config"
	"github.com/art-dzd/news-bot/internal/embedding"
	"github.com/art-dzd/news-bot/internal/history"
	"github.com/art-dzd/news-bot/internal/logging"
	"github.com/art-dzd/news-bot/internal/match"
	"github.com/art-dzd/news-bot/internal/pipeline"
	"github.com/art-dzd/news-bot/internal/source"
	"github.com/art-dzd/news-bot/internal/telegram"
)

type runtime struct {
	cfg     *config.Config
	logger  zerolog.Logger
	service *pipeline.Service
}

// newRuntime wires the full service from the environment. With dryRun set,
// delivery is disabled regardless of the Telegram configuration.
func newRuntime(envLoader *cli.EnvLoader, dryRun bool) (*runtime, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	store := history.NewStore(cfg.StateDir, cfg.MaxAnalyzedURLs, logger)

	keywords, err := match.LoadKeywords(cfg.KeywordsPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.KeywordsPath).
			Msg("keyword list not loaded, keyword matching disabled")
		keywords = match.NewKeywordList(nil)
	}

	provider := embedding.NewHTTPProvider(embedding.HTTPOptions{
		Endpoint:       cfg.EmbeddingEndpoint,
		MaxLength:      cfg.EmbeddingMaxLength,
		RequestTimeout: cfg.EmbeddingTimeout,
		ForceCPU:       cfg.ForceCPU,
		LimitMemory:    cfg.LimitMemory,
	})

	portal := source.NewPortalFetcher(cfg.PortalFeedURLList(), true, logger)
	aggregator := source.NewAggregatorFetcher(cfg.AggregatorURL, logger)

	var sink pipeline.Sink
	switch {
	case dryRun:
		logger.Info().Msg("dry run, delivery disabled")
	case !cfg.DeliveryEnabled():
		logger.Info().Msg("telegram credentials not set, delivery disabled")
	default:
		sink = telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
	}

	service := pipeline.New(cfg, logger, store, portal, aggregator, sink, provider, keywords)

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}, nil
}
