package pipeline

import (
	"math/rand"
	"testing"
	"time"
)

func TestNextIntervalDaytime(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	now := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		interval := NextInterval(now, rng)
		if interval < 4*time.Minute || interval >= 6*time.Minute {
			t.Fatalf("daytime interval out of range: %v", interval)
		}
	}
}

func TestNextIntervalNighttime(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	cases := []time.Time{
		time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 3, 15, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 5, 59, 0, 0, time.UTC),
	}
	for _, now := range cases {
		for i := 0; i < 100; i++ {
			interval := NextInterval(now, rng)
			if interval < 30*time.Minute || interval >= 60*time.Minute {
				t.Fatalf("nighttime interval out of range at %v: %v", now, interval)
			}
		}
	}
}

func TestNextIntervalBoundaries(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))

	atSix := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	if interval := NextInterval(atSix, rng); interval >= 30*time.Minute {
		t.Fatalf("06:00 must use the daytime band, got %v", interval)
	}

	atTen := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	if interval := NextInterval(atTen, rng); interval < 30*time.Minute {
		t.Fatalf("22:00 must use the nighttime band, got %v", interval)
	}
}
