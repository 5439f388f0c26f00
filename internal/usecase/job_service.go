package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/jobscheduler"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

type WeeklyJobInput struct {
	Week      *int
	Trigger   string
	SkipEmail bool
}

type WeeklyJobResult struct {
	DispatchID string          `json:"dispatch_id"`
	Week       int             `json:"week"`
	Scoring    ScoreWeekResult `json:"scoring"`
	Standings  RecomputeResult `json:"standings"`
	Email      *DeliveryReport `json:"email,omitempty"`
}

type KickoffCheckResult struct {
	Week     int              `json:"week"`
	Kickoffs []time.Time      `json:"kickoffs"`
	Reports  []DeliveryReport `json:"reports"`
}

// JobService runs the league's recurring jobs and records each run in the
// dispatch ledger.
type JobService struct {
	calendar      *Calendar
	board         *BoardService
	scoring       *ScoringService
	standings     *StandingsService
	notifications *NotificationService
	dispatchRepo  jobscheduler.Repository
	logger        *logging.Logger
	now           func() time.Time
	newID         func() string
}

func NewJobService(
	calendar *Calendar,
	board *BoardService,
	scoring *ScoringService,
	standings *StandingsService,
	notifications *NotificationService,
	dispatchRepo jobscheduler.Repository,
	logger *logging.Logger,
) *JobService {
	if logger == nil {
		logger = logging.Default()
	}
	return &JobService{
		calendar:      calendar,
		board:         board,
		scoring:       scoring,
		standings:     standings,
		notifications: notifications,
		dispatchRepo:  dispatchRepo,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// RunWeekly scores the finished week, recomputes standings and emails them.
// The week defaults to the one before the active week.
func (s *JobService) RunWeekly(ctx context.Context, input WeeklyJobInput) (WeeklyJobResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobService.RunWeekly")
	defer span.End()

	week, err := s.resolveStandingsWeek(ctx, input.Week)
	if err != nil {
		return WeeklyJobResult{}, err
	}

	result := WeeklyJobResult{Week: week}
	result.DispatchID, err = s.Run(ctx, jobscheduler.JobWeekly, input.Trigger, week, func(ctx context.Context) error {
		scored, err := s.scoring.ScoreWeek(ctx, week)
		if err != nil {
			return fmt.Errorf("score week=%d: %w", week, err)
		}
		result.Scoring = scored

		recomputed, err := s.standings.Recompute(ctx, week)
		if err != nil {
			return fmt.Errorf("recompute standings through week=%d: %w", week, err)
		}
		result.Standings = recomputed

		if input.SkipEmail || week == 0 {
			return nil
		}
		report, err := s.notifications.SendStandings(ctx, week)
		if err != nil {
			return fmt.Errorf("email standings week=%d: %w", week, err)
		}
		result.Email = &report
		return nil
	})
	if err != nil {
		return WeeklyJobResult{}, err
	}
	return result, nil
}

// SendCurrentLines emails the active week's board.
func (s *JobService) SendCurrentLines(ctx context.Context, trigger string) (DeliveryReport, error) {
	week, ok, err := s.calendar.CurrentWeek(ctx)
	if err != nil {
		return DeliveryReport{}, err
	}
	if !ok {
		return DeliveryReport{}, fmt.Errorf("%w: no active week", ErrInvalidInput)
	}
	var report DeliveryReport
	_, err = s.Run(ctx, jobscheduler.JobLinesEmail, trigger, week, func(ctx context.Context) error {
		report, err = s.notifications.SendLines(ctx, week)
		return err
	})
	return report, err
}

// kickoffLookback widens the kickoff scan so a late scheduler tick still
// catches kickoffs from the previous interval.
const kickoffLookback = 2

// NotifyRecentKickoffs sends the picks email for each kickoff of the active
// week that happened within the trailing window. Kickoffs the dispatch ledger
// already records as sent are skipped.
func (s *JobService) NotifyRecentKickoffs(ctx context.Context, window time.Duration, trigger string) (KickoffCheckResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobService.NotifyRecentKickoffs")
	defer span.End()

	week, ok, err := s.calendar.CurrentWeek(ctx)
	if err != nil {
		return KickoffCheckResult{}, err
	}
	if !ok {
		return KickoffCheckResult{}, nil
	}
	games, err := s.board.ListWeek(ctx, week)
	if err != nil {
		return KickoffCheckResult{}, err
	}

	now := s.now()
	from := now.Add(-kickoffLookback * window)
	done := s.notifiedKickoffs(ctx)
	result := KickoffCheckResult{Week: week}
	for _, item := range games {
		kickoff := item.KickoffAt
		if kickoff.After(now) || !kickoff.After(from) {
			continue
		}
		key := kickoffKey(kickoff)
		if _, seen := done[key]; seen {
			continue
		}
		done[key] = struct{}{}
		result.Kickoffs = append(result.Kickoffs, kickoff)
	}

	for _, kickoff := range result.Kickoffs {
		kickoff := kickoff
		payload := map[string]any{"kickoff": kickoffKey(kickoff)}
		_, err := s.run(ctx, jobscheduler.JobKickoffPicks, trigger, week, payload, func(ctx context.Context) error {
			report, err := s.notifications.SendKickoffPicks(ctx, week, &kickoff)
			if err != nil {
				return err
			}
			result.Reports = append(result.Reports, report)
			return nil
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// notifiedKickoffs returns the kickoffs of completed picks emails this season.
func (s *JobService) notifiedKickoffs(ctx context.Context) map[string]struct{} {
	out := make(map[string]struct{})
	if s.dispatchRepo == nil {
		return out
	}
	events, err := s.dispatchRepo.ListRecent(ctx, maxDispatchListLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "list kickoff dispatches failed", "error", err)
		return out
	}
	season := s.calendar.Season()
	for _, event := range events {
		if event.JobName != jobscheduler.JobKickoffPicks || event.Season != season || event.Status != jobscheduler.StatusCompleted {
			continue
		}
		if kickoff, ok := event.Payload["kickoff"].(string); ok {
			out[kickoff] = struct{}{}
		}
	}
	return out
}

func kickoffKey(kickoff time.Time) string {
	return kickoff.UTC().Format(time.RFC3339)
}

// Run executes fn and records the sent and completed or failed states.
func (s *JobService) Run(ctx context.Context, jobName, trigger string, week int, fn func(ctx context.Context) error) (string, error) {
	return s.run(ctx, jobName, trigger, week, nil, fn)
}

func (s *JobService) run(ctx context.Context, jobName, trigger string, week int, extra map[string]any, fn func(ctx context.Context) error) (string, error) {
	if strings.TrimSpace(trigger) == "" {
		trigger = TriggerManual
	}
	payload := map[string]any{"week": week, "trigger": trigger}
	for key, value := range extra {
		payload[key] = value
	}
	dispatchID := s.newID()
	event := jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		JobName:    jobName,
		Trigger:    trigger,
		Season:     s.calendar.Season(),
		Week:       week,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
	}
	s.recordDispatchEvent(ctx, event)

	started := s.now()
	if err := fn(ctx); err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		event.OccurredAt = time.Time{}
		s.recordDispatchEvent(ctx, event)
		s.logger.ErrorContext(ctx, "job failed", "job", jobName, "dispatch_id", dispatchID, "week", week, "error", err)
		return dispatchID, err
	}

	event.Status = jobscheduler.StatusCompleted
	event.OccurredAt = time.Time{}
	s.recordDispatchEvent(ctx, event)
	s.logger.InfoContext(ctx, "job completed", "job", jobName, "dispatch_id", dispatchID, "week", week, "duration", s.now().Sub(started))
	return dispatchID, nil
}

const maxDispatchListLimit = 200

// RecentDispatches lists the latest job runs for the commissioner.
func (s *JobService) RecentDispatches(ctx context.Context, limit int) ([]jobscheduler.DispatchEvent, error) {
	if limit < 0 || limit > maxDispatchListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxDispatchListLimit)
	}
	if s.dispatchRepo == nil {
		return []jobscheduler.DispatchEvent{}, nil
	}
	events, err := s.dispatchRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list job dispatches: %w", err)
	}
	return events, nil
}

func (s *JobService) resolveStandingsWeek(ctx context.Context, override *int) (int, error) {
	if override != nil {
		return *override, nil
	}
	active, ok, err := s.calendar.CurrentWeek(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: no active week, pass the week explicitly", ErrInvalidInput)
	}
	return active - 1, nil
}

func (s *JobService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
