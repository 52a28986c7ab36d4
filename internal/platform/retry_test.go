package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithRetrySucceedsAfterRateLimit(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), zap.NewNop(), 3, func() error {
		attempts++
		if attempts < 3 {
			return &RateLimitError{RetryAfter: time.Millisecond}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), zap.NewNop(), 2, func() error {
		attempts++
		return &RateLimitError{RetryAfter: time.Millisecond}
	})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)

	var rateErr *RateLimitError
	assert.True(t, errors.As(err, &rateErr))
}

func TestWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	attempts := 0
	boom := errors.New("boom")
	err := WithRetry(context.Background(), zap.NewNop(), 3, func() error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestIsRateLimited(t *testing.T) {
	retryAfter, ok := IsRateLimited(&RateLimitError{RetryAfter: 2 * time.Second})
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, retryAfter)

	_, ok = IsRateLimited(errors.New("other"))
	assert.False(t, ok)
}
