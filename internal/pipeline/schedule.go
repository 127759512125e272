package pipeline

import (
	"context"
	"math/rand"
	"time"

	"github.com/art-dzd/news-bot/internal/globaltime"
)

const (
	dayStartHour = 6
	dayEndHour   = 22

	dayMinInterval   = 4 * time.Minute
	dayMaxInterval   = 6 * time.Minute
	nightMinInterval = 30 * time.Minute
	nightMaxInterval = 60 * time.Minute

	cleanupEvery = 24 * time.Hour
)

// NextInterval picks a randomized pause before the next cycle. Daytime
// (06:00-22:00 local) polls every 4-6 minutes, nighttime every 30-60.
// Jitter keeps request timing from looking mechanical to the sources.
func NextInterval(now time.Time, rng *rand.Rand) time.Duration {
	min, max := nightMinInterval, nightMaxInterval
	if hour := now.Hour(); hour >= dayStartHour && hour < dayEndHour {
		min, max = dayMinInterval, dayMaxInterval
	}
	return min + time.Duration(rng.Int63n(int64(max-min)))
}

// Run polls in a loop until ctx is cancelled. Cycle errors are logged and
// the loop keeps going; caches are pruned once a day.
func (s *Service) Run(ctx context.Context) error {
	loc := s.cfg.Location()
	rng := rand.New(rand.NewSource(globaltime.Now().UnixNano()))
	lastCleanup := globaltime.Now()

	for {
		if _, err := s.RunCycle(ctx); err != nil {
			s.logger.Error().Err(err).Msg("poll cycle ended with errors")
		}

		if globaltime.Now().Sub(lastCleanup) >= cleanupEvery {
			s.CleanupCaches()
			lastCleanup = globaltime.Now()
		}

		wait := NextInterval(globaltime.Now().In(loc), rng)
		s.logger.Debug().Dur("wait", wait).Msg("sleeping until next cycle")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}
