package resilience

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy allows Retries extra attempts after the first, waiting Backoff
// between attempts.
type RetryPolicy struct {
	Retries int
	Backoff time.Duration
}

// Retry calls fn until it succeeds, the policy is exhausted, or ctx ends.
// An open circuit is returned immediately. attempt starts at 0.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context, attempt int) error) error {
	if policy.Retries < 0 {
		policy.Retries = 0
	}

	var err error
	for attempt := 0; attempt <= policy.Retries; attempt++ {
		if attempt > 0 && policy.Backoff > 0 {
			timer := time.NewTimer(policy.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(err, ctx.Err())
			case <-timer.C:
			}
		}

		err = fn(ctx, attempt)
		if err == nil || errors.Is(err, ErrCircuitOpen) {
			return err
		}
	}
	return err
}
