package mail

import (
	"context"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/notification"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/resilience"
)

var errNoRecipients = crerr.New("email has no recipients")

type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	Retry          resilience.RetryPolicy
	CircuitBreaker resilience.CircuitBreakerConfig
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers rendered emails. Each attempt opens a new connection,
// so a retry after a dropped session reconnects.
type SMTPMailer struct {
	addr           string
	host           string
	auth           smtp.Auth
	policy         resilience.RetryPolicy
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	logger         *logging.Logger
	send           sendFunc
	now            func() time.Time
	newID          func() string
}

func NewSMTPMailer(cfg SMTPConfig, logger *logging.Logger) *SMTPMailer {
	if logger == nil {
		logger = logging.Default()
	}
	port := cfg.Port
	if port <= 0 {
		port = 587
	}
	var auth smtp.Auth
	if strings.TrimSpace(cfg.Username) != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("smtp circuit breaker state changed", "from", from, "to", to, "host", cfg.Host)
	})

	return &SMTPMailer{
		addr:           net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		host:           cfg.Host,
		auth:           auth,
		policy:         cfg.Retry,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		logger:         logger,
		send:           smtp.SendMail,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, email notification.Email) error {
	recipients := email.Recipients()
	if len(recipients) == 0 {
		return errNoRecipients
	}
	from := strings.TrimSpace(email.From)
	if from == "" {
		return crerr.New("email sender is required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := m.writeMessage(buf, email); err != nil {
		return crerr.Wrap(err, "build mime message")
	}
	payload := append([]byte(nil), buf.B...)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("mail.kind", email.Kind),
			attribute.Int("mail.recipients", len(recipients)),
		)
	}

	breaker := m.breaker
	if !m.circuitEnabled {
		breaker = nil
	}
	err := resilience.Retry(ctx, m.policy, func(ctx context.Context, attempt int) error {
		if attempt > 0 {
			m.logger.WarnContext(ctx, "retrying email delivery", "kind", email.Kind, "attempt", attempt, "to", email.To)
		}
		return breaker.Do(func() error {
			return m.send(m.addr, m.auth, from, recipients, payload)
		})
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			m.logger.WarnContext(ctx, "smtp circuit breaker rejected email", "state", m.breaker.State(), "kind", email.Kind)
		}
		return crerr.Wrapf(err, "send %s email", email.Kind)
	}
	return nil
}

func (m *SMTPMailer) writeMessage(buf *bytebufferpool.ByteBuffer, email notification.Email) error {
	writeHeader(buf, "From", email.From)
	writeHeader(buf, "To", strings.Join(email.To, ", "))
	if len(email.Cc) > 0 {
		writeHeader(buf, "Cc", strings.Join(email.Cc, ", "))
	}
	if strings.TrimSpace(email.ReplyTo) != "" {
		writeHeader(buf, "Reply-To", email.ReplyTo)
	}
	writeHeader(buf, "Subject", mime.QEncoding.Encode("utf-8", email.Subject))
	writeHeader(buf, "Date", m.now().Format(time.RFC1123Z))
	writeHeader(buf, "Message-ID", "<"+m.newID()+"@"+messageIDDomain(m.host)+">")
	writeHeader(buf, "MIME-Version", "1.0")
	writeHeader(buf, "Content-Type", `text/html; charset="UTF-8"`)
	writeHeader(buf, "Content-Transfer-Encoding", "quoted-printable")
	_, _ = buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(buf)
	if _, err := qp.Write([]byte(email.HTMLBody)); err != nil {
		return err
	}
	return qp.Close()
}

func writeHeader(buf *bytebufferpool.ByteBuffer, name, value string) {
	value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	_, _ = buf.WriteString(name)
	_, _ = buf.WriteString(": ")
	_, _ = buf.WriteString(value)
	_, _ = buf.WriteString("\r\n")
}

func messageIDDomain(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return "localhost"
	}
	return host
}
