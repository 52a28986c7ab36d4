package platform

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound signals that a channel or message no longer exists. The
// core treats it as "the resource is gone, proceed without it".
var ErrNotFound = errors.New("platform: not found")

// RateLimitError signals a throttled call; RetryAfter is the advisory
// wait supplied by the platform, zero when unknown.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("platform: rate limited (retry after %s)", e.RetryAfter)
}

// IsRateLimited reports whether err is a throttling failure and returns
// the advisory delay.
func IsRateLimited(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}
