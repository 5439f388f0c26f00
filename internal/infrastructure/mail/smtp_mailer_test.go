package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/notification"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/resilience"
)

type recordingTransport struct {
	mu       sync.Mutex
	failures int
	calls    int
	to       []string
	msg      string
}

func (r *recordingTransport) send(_ string, _ smtp.Auth, _ string, to []string, msg []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.calls <= r.failures {
		return errors.New("421 service not available")
	}
	r.to = to
	r.msg = string(msg)
	return nil
}

func newTestMailer(transport *recordingTransport, retries int, breaker resilience.CircuitBreakerConfig) *SMTPMailer {
	m := NewSMTPMailer(SMTPConfig{
		Host:           "smtp.example.com",
		Retry:          resilience.RetryPolicy{Retries: retries},
		CircuitBreaker: breaker,
	}, logging.NewNop())
	m.send = transport.send
	m.now = func() time.Time { return time.Date(2025, time.October, 16, 20, 15, 0, 0, time.UTC) }
	m.newID = func() string { return "msg-1" }
	return m
}

func testEmail() notification.Email {
	return notification.Email{
		Kind:     notification.KindPickConfirmation,
		From:     "LOTW <commish@example.com>",
		To:       []string{"jane@example.com"},
		Cc:       []string{"commish@example.com", "JANE@example.com"},
		Subject:  "LOTW: Week 7 pick DEN -7.5",
		HTMLBody: "<p>Your pick is in.</p>",
	}
}

func TestSMTPMailer_Send(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	m := newTestMailer(transport, 1, resilience.CircuitBreakerConfig{})
	if err := m.Send(context.Background(), testEmail()); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if len(transport.to) != 2 {
		t.Fatalf("expected de-duplicated recipients, got %v", transport.to)
	}
	for _, want := range []string{
		"To: jane@example.com\r\n",
		"Cc: commish@example.com, JANE@example.com\r\n",
		"Message-ID: <msg-1@smtp.example.com>\r\n",
		"Content-Type: text/html; charset=\"UTF-8\"\r\n",
		"\r\n\r\n<p>Your pick is in.</p>",
	} {
		if !strings.Contains(transport.msg, want) {
			t.Fatalf("message missing %q:\n%s", want, transport.msg)
		}
	}
}

func TestSMTPMailer_RetriesOnce(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{failures: 1}
	m := newTestMailer(transport, 1, resilience.CircuitBreakerConfig{})
	if err := m.Send(context.Background(), testEmail()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if transport.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", transport.calls)
	}

	transport = &recordingTransport{failures: 5}
	m = newTestMailer(transport, 1, resilience.CircuitBreakerConfig{})
	if err := m.Send(context.Background(), testEmail()); err == nil {
		t.Fatalf("expected failure after retries")
	}
	if transport.calls != 2 {
		t.Fatalf("expected retries to be bounded, got %d attempts", transport.calls)
	}
}

func TestSMTPMailer_CircuitOpens(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{failures: 100}
	m := newTestMailer(transport, 0, resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Hour})
	for i := 0; i < 2; i++ {
		_ = m.Send(context.Background(), testEmail())
	}
	err := m.Send(context.Background(), testEmail())
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if transport.calls != 2 {
		t.Fatalf("open circuit must not reach the transport, got %d calls", transport.calls)
	}
}

func TestSMTPMailer_RejectsEmptyRecipients(t *testing.T) {
	t.Parallel()

	m := newTestMailer(&recordingTransport{}, 0, resilience.CircuitBreakerConfig{})
	email := testEmail()
	email.To, email.Cc = nil, []string{" "}
	if err := m.Send(context.Background(), email); !errors.Is(err, errNoRecipients) {
		t.Fatalf("expected errNoRecipients, got %v", err)
	}
}
