package bybit

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// retryPolicy bounds how API calls are retried on transient failures.
// Non-retryable errors (bad parameters, insufficient balance) surface
// immediately so a strategy cycle fails fast.
type retryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// delay returns the backoff before the given retry attempt (1-based),
// exponential with jitter, capped at MaxDelay.
func (p retryPolicy) delay(attempt int) time.Duration {
	backoff := float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt-1))
	if backoff > float64(p.MaxDelay) {
		backoff = float64(p.MaxDelay)
	}
	// Up to 25% jitter keeps parallel tasks from retrying in lockstep.
	jitter := backoff * 0.25 * rand.Float64()
	return time.Duration(backoff + jitter)
}

var retryableCodes = map[int]bool{
	ErrCodeRateLimitExceeded: true,
	500:                      true,
	502:                      true,
	503:                      true,
	504:                      true,
}

// isRetryable reports whether the call may succeed if repeated.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return retryableCodes[apiErr.Code]
	}
	// Transport-level failures (connection reset, refused) are worth
	// one more try.
	return true
}
