package bybit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelayGrowsAndCaps(t *testing.T) {
	p := defaultRetryPolicy()

	first := p.delay(1)
	assert.GreaterOrEqual(t, first, p.InitialDelay)
	assert.Less(t, first, 2*p.InitialDelay)

	// Far beyond the horizon the delay stays at MaxDelay plus jitter.
	huge := p.delay(20)
	assert.GreaterOrEqual(t, huge, p.MaxDelay)
	assert.LessOrEqual(t, huge, p.MaxDelay+p.MaxDelay/4)
}

func TestIsRetryableClassification(t *testing.T) {
	assert.True(t, isRetryable(&APIError{Code: ErrCodeRateLimitExceeded}))
	assert.True(t, isRetryable(&APIError{Code: 503}))
	assert.True(t, isRetryable(errors.New("connection reset by peer")))

	assert.False(t, isRetryable(nil))
	assert.False(t, isRetryable(&APIError{Code: ErrCodeInsufficientBalance}))
	assert.False(t, isRetryable(context.Canceled))
	assert.False(t, isRetryable(context.DeadlineExceeded))
}

func TestCallRetriesTransientFailures(t *testing.T) {
	c := NewClient(Config{})
	c.retry = retryPolicy{
		MaxRetries:    2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	attempts := 0
	err := c.call(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return &APIError{Code: ErrCodeRateLimitExceeded}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestCallStopsOnPermanentFailure(t *testing.T) {
	c := NewClient(Config{})

	attempts := 0
	err := c.call(context.Background(), func(context.Context) error {
		attempts++
		return &APIError{Code: ErrCodeInsufficientBalance}
	})

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 1, attempts)
}
