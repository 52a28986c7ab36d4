package platform

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultBackoff = time.Second

// WithRetry runs op with bounded retries on rate-limit failures. Other
// errors abort immediately. After maxAttempts exhausted attempts the
// last error is returned; callers log and abandon the operation rather
// than failing the process.
func WithRetry(ctx context.Context, logger *zap.Logger, maxAttempts int, op func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		wait, limited := IsRateLimited(lastErr)
		if !limited {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}
		if wait <= 0 {
			wait = defaultBackoff
		}
		logger.Warn("rate limited, backing off",
			zap.Duration("wait", wait),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}
