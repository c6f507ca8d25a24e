package generator

import (
	"context"
	"time"
)

// Config controls retries on capacity failures.
type Config struct {
	// MaxRetries is how many times a capacity failure is retried before
	// the offline fallback answers instead.
	MaxRetries int

	// BaseDelay is the backoff unit: retry n waits 2^n * BaseDelay.
	BaseDelay time.Duration

	// MaxJitter bounds the random delay added to every wait.
	MaxJitter time.Duration

	// Seed drives jitter and fallback selection.
	Seed uint64

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the production retry settings.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxJitter:  500 * time.Millisecond,
		Seed:       uint64(time.Now().UnixNano()),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
