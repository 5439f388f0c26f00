package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	t.Parallel()

	errSend := errors.New("send failed")
	tests := []struct {
		name      string
		policy    RetryPolicy
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		{name: "first attempt succeeds", policy: RetryPolicy{Retries: 1}, wantCalls: 1},
		{name: "retry succeeds", policy: RetryPolicy{Retries: 1, Backoff: time.Millisecond}, failures: 1, failWith: errSend, wantCalls: 2},
		{name: "retries exhausted", policy: RetryPolicy{Retries: 2}, failures: 5, failWith: errSend, wantCalls: 3, wantErr: errSend},
		{name: "open circuit stops", policy: RetryPolicy{Retries: 3}, failures: 5, failWith: ErrCircuitOpen, wantCalls: 1, wantErr: ErrCircuitOpen},
		{name: "negative retries", policy: RetryPolicy{Retries: -1}, failures: 5, failWith: errSend, wantCalls: 1, wantErr: errSend},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			calls := 0
			err := Retry(context.Background(), tc.policy, func(context.Context, int) error {
				calls++
				if calls <= tc.failures {
					return tc.failWith
				}
				return nil
			})
			if !errors.Is(err, tc.wantErr) || (tc.wantErr == nil && err != nil) {
				t.Fatalf("Retry() error = %v, want %v", err, tc.wantErr)
			}
			if calls != tc.wantCalls {
				t.Fatalf("calls = %d, want %d", calls, tc.wantCalls)
			}
		})
	}
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	errSend := errors.New("send failed")
	err := Retry(ctx, RetryPolicy{Retries: 3, Backoff: time.Hour}, func(context.Context, int) error {
		cancel()
		return errSend
	})
	if !errors.Is(err, context.Canceled) || !errors.Is(err, errSend) {
		t.Fatalf("expected cancellation joined with last error, got %v", err)
	}
}

func TestCircuitBreaker_Do(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, time.Minute, 1)
	errSend := errors.New("send failed")
	if err := b.Do(func() error { return errSend }); !errors.Is(err, errSend) {
		t.Fatalf("expected send error, got %v", err)
	}
	if err := b.Do(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	var nilBreaker *CircuitBreaker
	if err := nilBreaker.Do(func() error { return nil }); err != nil {
		t.Fatalf("nil breaker should pass through, got %v", err)
	}
}
