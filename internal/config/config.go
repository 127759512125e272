package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	StateDir     string `envconfig:"STATE_DIR" default:"./data"`
	KeywordsPath string `envconfig:"KEYWORDS_PATH" default:"filters/keywords.yaml"`

	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.79"`
	MaxCacheSize        int     `envconfig:"MAX_CACHE_SIZE" default:"1000"`
	MaxNewsAgeDays      int     `envconfig:"MAX_NEWS_AGE_DAYS" default:"2"`
	CacheMaxAgeDays     int     `envconfig:"CACHE_MAX_AGE_DAYS" default:"3"`
	MaxAnalyzedURLs     int     `envconfig:"MAX_ANALYZED_URLS" default:"5000"`

	EmbeddingEndpoint  string        `envconfig:"EMBEDDING_ENDPOINT" default:"http://127.0.0.1:8844/embed"`
	EmbeddingMaxLength int           `envconfig:"EMBEDDING_MAX_LENGTH" default:"512"`
	EmbeddingTimeout   time.Duration `envconfig:"EMBEDDING_TIMEOUT" default:"45s"`
	ForceCPU           bool          `envconfig:"FORCE_CPU" default:"false"`
	LimitMemory        bool          `envconfig:"LIMIT_MEMORY" default:"false"`

	PortalFeedURLs string `envconfig:"PORTAL_FEED_URLS" required:"true"`
	AggregatorURL  string `envconfig:"AGGREGATOR_URL" required:"true"`
	TargetLanguage string `envconfig:"TARGET_LANGUAGE" default:"ru"`
	Timezone       string `envconfig:"TIMEZONE" default:"Europe/Moscow"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	TelegramChatID   string `envconfig:"TELEGRAM_CHAT_ID" default:""`

	OpsTokenHash string `envconfig:"OPS_TOKEN_HASH" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	if c.MaxCacheSize < 1 {
		return fmt.Errorf("MAX_CACHE_SIZE must be >= 1")
	}
	if c.MaxNewsAgeDays < 1 {
		return fmt.Errorf("MAX_NEWS_AGE_DAYS must be >= 1")
	}
	if c.CacheMaxAgeDays < 1 {
		return fmt.Errorf("CACHE_MAX_AGE_DAYS must be >= 1")
	}
	if c.MaxAnalyzedURLs < 1 {
		return fmt.Errorf("MAX_ANALYZED_URLS must be >= 1")
	}
	if len(c.PortalFeedURLList()) == 0 {
		return fmt.Errorf("PORTAL_FEED_URLS must list at least one URL")
	}
	if strings.TrimSpace(c.AggregatorURL) == "" {
		return fmt.Errorf("AGGREGATOR_URL is required")
	}
	if _, err := time.LoadLocation(strings.TrimSpace(c.Timezone)); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}

// PortalFeedURLList splits PORTAL_FEED_URLS on commas, trimming and deduplicating.
func (c *Config) PortalFeedURLList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.PortalFeedURLs, ",")
	urls := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		u := strings.TrimSpace(part)
		if u == "" {
			continue
		}
		if _, exists := seen[u]; exists {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) DeliveryEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}
