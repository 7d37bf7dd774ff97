package engine

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/SoiletsAce/ContentSync/internal/content"
)

// NewBWLimiter creates a rate.Limiter that caps aggregate write throughput
// to bytesPerSec. The burst is 1 MB so a typical page passes in one wait.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := 1 << 20
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// throttledWriter wraps next so that every write first waits for len(data)
// tokens. Documents larger than the burst are charged in burst-sized steps.
func throttledWriter(ctx context.Context, limiter *rate.Limiter, next content.WriteFunc) content.WriteFunc {
	if limiter == nil || limiter.Burst() <= 0 {
		return next
	}
	return func(path string, data []byte) error {
		for remaining := len(data); remaining > 0; {
			n := min(remaining, limiter.Burst())
			if err := limiter.WaitN(ctx, n); err != nil {
				return err
			}
			remaining -= n
		}
		return next(path, data)
	}
}
