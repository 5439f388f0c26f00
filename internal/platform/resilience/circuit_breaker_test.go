package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold, halfOpen int) (*CircuitBreaker, *time.Time) {
	now := time.Date(2025, 10, 12, 13, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(threshold, 30*time.Second, halfOpen)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_OpensAfterThresholdAndRecovers(t *testing.T) {
	t.Parallel()

	b, now := newTestBreaker(2, 1)
	var transitions []string
	b.OnStateChange(func(from, to CircuitState) {
		transitions = append(transitions, string(from)+"->"+string(to))
	})
	smtpDown := errors.New("dial tcp: connection refused")

	if err := b.Do(func() error { return smtpDown }); !errors.Is(err, smtpDown) {
		t.Fatalf("expected smtp error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	_ = b.Do(func() error { return smtpDown })
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold, got %s", state)
	}

	calls := 0
	if err := b.Do(func() error { calls++; return nil }); !errors.Is(err, ErrCircuitOpen) || calls != 0 {
		t.Fatalf("expected open breaker to short circuit, err=%v calls=%d", err, calls)
	}

	*now = now.Add(31 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", state)
	}
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("unexpected transitions: %v", transitions)
		}
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	b, now := newTestBreaker(1, 2)
	b.RecordFailure()
	*now = now.Add(time.Minute)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected third probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected failed probe to reopen, got %s", state)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(2, 1)
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected non-consecutive failures to keep breaker closed, got %s", state)
	}
}

func TestCircuitBreaker_NilRunsUnguarded(t *testing.T) {
	t.Parallel()

	var b *CircuitBreaker
	ran := false
	if err := b.Do(func() error { ran = true; return nil }); err != nil || !ran {
		t.Fatalf("nil breaker should run fn, err=%v ran=%t", err, ran)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	t.Parallel()

	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: -2})
	want := DefaultCircuitBreakerConfig()
	if got != want {
		t.Fatalf("normalized config = %+v, want %+v", got, want)
	}

	custom := CircuitBreakerConfig{FailureThreshold: 10, OpenTimeout: time.Minute, HalfOpenMaxReq: 4}
	if got := NormalizeCircuitBreakerConfig(custom); got != custom {
		t.Fatalf("explicit values must be kept, got %+v", got)
	}
}
