package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/notification"
)

const (
	EventPickSubmitted     = "pick.submitted"
	EventWeekScored        = "week.scored"
	EventStandingsComputed = "standings.computed"
)

// Event is a domain fact announced to downstream consumers.
type Event struct {
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	Season     int            `json:"season"`
	Week       int            `json:"week"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type Mailer interface {
	Send(ctx context.Context, message notification.Email) error
}

type Archiver interface {
	Archive(ctx context.Context, season, week int, message notification.Email) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, Event) error { return nil }

func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, notification.Email) error { return nil }

func NewNoopMailer() Mailer {
	return noopMailer{}
}

type noopArchiver struct{}

func (noopArchiver) Archive(context.Context, int, int, notification.Email) error { return nil }

func NewNoopArchiver() Archiver {
	return noopArchiver{}
}
