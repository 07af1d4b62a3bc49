// Package retry wraps remote calls with bounded exponential backoff. Only
// errors accepted by the caller's predicate are retried; everything else
// surfaces immediately.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"volsweep/internal/logging"
)

const jitterPercent = 0.1

// Policy bounds the retry behaviour for one class of remote call
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

var (
	// RunPolicy covers read-heavy filtering passes, which are cheap to re-run
	RunPolicy = Policy{
		MaxAttempts: 30,
		BaseDelay:   3 * time.Second,
		MaxDelay:    120 * time.Second,
	}

	// DeletePolicy covers destructive delete calls, which must eventually
	// succeed or fail explicitly
	DeletePolicy = Policy{
		MaxAttempts: 100,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
	}
)

// delayForAttempt returns the wait before retrying after attempt n (1-based)
func (p Policy) delayForAttempt(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// addJitter adds random jitter to the delay
func addJitter(delay time.Duration) time.Duration {
	jitter := float64(delay) * jitterPercent
	return delay + time.Duration(jitter*(rand.Float64()*2-1))
}

// Do runs operation, retrying with exponential backoff while retryable
// accepts the error and attempts remain. Non-retryable errors are returned
// as-is; exhausting the attempt budget wraps the last error.
func Do(ctx context.Context, policy Policy, retryable func(error) bool, operation func() error) error {
	var err error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err = operation()
		if err == nil || !retryable(err) {
			return err
		}

		if attempt == policy.MaxAttempts {
			break
		}

		delay := addJitter(policy.delayForAttempt(attempt))
		logging.Debug("Rate limited, retrying with exponential backoff", map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": policy.MaxAttempts,
			"delay":        delay.String(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("max retries exceeded: %w", err)
}
