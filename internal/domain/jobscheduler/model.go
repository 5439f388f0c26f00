package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

const (
	JobWeekly       = "weekly"
	JobScoreWeek    = "score-week"
	JobStandings    = "recompute-standings"
	JobLinesEmail   = "lines-email"
	JobKickoffPicks = "kickoff-picks-email"
	JobRegistration = "registration-email"
	JobCommissioner = "commissioner-email"
	JobAnalytics    = "analytics-email"
)

// DispatchEvent records one state change of a weekly job run.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	Trigger      string
	Season       int
	Week         int
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
