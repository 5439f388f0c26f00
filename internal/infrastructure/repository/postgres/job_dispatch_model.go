package postgres

import (
	"database/sql"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/jobscheduler"
)

// jobDispatchInsertModel carries only the timestamp and trace columns of the
// event's own status; the rest stay nil so the upsert keeps stored values.
type jobDispatchInsertModel struct {
	DispatchID       string     `db:"dispatch_id"`
	JobName          string     `db:"job_name"`
	Trigger          string     `db:"trigger"`
	Season           int        `db:"season"`
	Week             int        `db:"week"`
	Payload          string     `db:"payload"`
	Status           string     `db:"status"`
	SentAt           *time.Time `db:"sent_at"`
	CompletedAt      *time.Time `db:"completed_at"`
	FailedAt         *time.Time `db:"failed_at"`
	LastError        *string    `db:"last_error"`
	SentTraceID      *string    `db:"sent_trace_id"`
	SentSpanID       *string    `db:"sent_span_id"`
	CompletedTraceID *string    `db:"completed_trace_id"`
	CompletedSpanID  *string    `db:"completed_span_id"`
	FailedTraceID    *string    `db:"failed_trace_id"`
	FailedSpanID     *string    `db:"failed_span_id"`
}

type jobDispatchRowModel struct {
	DispatchID string         `db:"dispatch_id"`
	JobName    string         `db:"job_name"`
	Trigger    string         `db:"trigger"`
	Season     int            `db:"season"`
	Week       int            `db:"week"`
	Payload    string         `db:"payload"`
	Status     string         `db:"status"`
	LastError  sql.NullString `db:"last_error"`
	TraceID    sql.NullString `db:"trace_id"`
	SpanID     sql.NullString `db:"span_id"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (m jobDispatchRowModel) toDomain() jobscheduler.DispatchEvent {
	event := jobscheduler.DispatchEvent{
		DispatchID:   m.DispatchID,
		JobName:      m.JobName,
		Trigger:      m.Trigger,
		Season:       m.Season,
		Week:         m.Week,
		Status:       jobscheduler.DispatchStatus(m.Status),
		ErrorMessage: m.LastError.String,
		OccurredAt:   m.UpdatedAt.UTC(),
		TraceID:      m.TraceID.String,
		SpanID:       m.SpanID.String,
	}
	if m.Payload != "" && m.Payload != "{}" {
		payload := map[string]any{}
		if err := sonic.UnmarshalString(m.Payload, &payload); err == nil {
			event.Payload = payload
		}
	}
	return event
}
