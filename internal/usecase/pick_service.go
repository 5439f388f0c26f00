package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectLocked        RejectReason = "locked"
	RejectUnchanged     RejectReason = "unchanged"
	RejectKickoffPassed RejectReason = "kickoff_passed"
	RejectNoLine        RejectReason = "no_line"
)

type SubmitPickInput struct {
	PlayerID int64
	Week     int
	TeamID   string
}

// PickOutcome is the answer to a submission. Business rule rejections are
// reported here with Accepted=false rather than as errors.
type PickOutcome struct {
	Accepted bool         `json:"accepted"`
	Reason   RejectReason `json:"reason,omitempty"`
	Week     int          `json:"week"`
	TeamID   string       `json:"team_id"`
	Line     *float64     `json:"line"`
	Message  string       `json:"message"`
	Pick     *pick.Pick   `json:"-"`
}

type CurrentPick struct {
	Week   int        `json:"week"`
	TeamID string     `json:"team_id"`
	Line   *float64   `json:"line"`
	State  pick.State `json:"state"`
	Pick   *pick.Pick `json:"-"`
}

// PickNotifier is told about accepted picks.
type PickNotifier interface {
	NotifyPickAccepted(ctx context.Context, item player.Player, outcome PickOutcome) error
}

type PickService struct {
	pickRepo   pick.Repository
	playerRepo player.Repository
	teamRepo   team.Repository
	board      *BoardService
	calendar   *Calendar
	notifier   PickNotifier
	events     EventPublisher
	logger     *logging.Logger
	now        func() time.Time
}

func NewPickService(
	pickRepo pick.Repository,
	playerRepo player.Repository,
	teamRepo team.Repository,
	board *BoardService,
	calendar *Calendar,
	notifier PickNotifier,
	events EventPublisher,
	logger *logging.Logger,
) *PickService {
	if events == nil {
		events = NewNoopEventPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PickService{
		pickRepo:   pickRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		board:      board,
		calendar:   calendar,
		notifier:   notifier,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit runs a pick change through the lock, duplicate, kickoff and line
// checks before swapping the current pick.
func (s *PickService) Submit(ctx context.Context, input SubmitPickInput) (PickOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Submit")
	defer span.End()

	season := s.calendar.Season()
	teamID := team.NormalizeID(input.TeamID)
	if !game.ValidWeek(input.Week) {
		return PickOutcome{}, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, game.FirstWeek, game.FinalWeek)
	}
	if _, exists, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return PickOutcome{}, fmt.Errorf("get team: %w", err)
	} else if !exists {
		return PickOutcome{}, fmt.Errorf("%w: unknown team %q", ErrInvalidInput, input.TeamID)
	}
	participant, exists, err := s.playerRepo.GetByID(ctx, season, input.PlayerID)
	if err != nil {
		return PickOutcome{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return PickOutcome{}, fmt.Errorf("%w: player=%d", ErrNotFound, input.PlayerID)
	}
	if !participant.Registered {
		return PickOutcome{}, fmt.Errorf("%w: player=%d is not registered for season %d", ErrInvalidInput, input.PlayerID, season)
	}
	games, err := s.board.ListWeek(ctx, input.Week)
	if err != nil {
		return PickOutcome{}, err
	}
	if len(games) == 0 {
		return PickOutcome{}, fmt.Errorf("%w: no games scheduled for week %d", ErrInvalidInput, input.Week)
	}

	now := s.now()
	current, hasCurrent, err := s.pickRepo.GetCurrent(ctx, season, input.PlayerID, input.Week)
	if err != nil {
		return PickOutcome{}, fmt.Errorf("get current pick: %w", err)
	}

	if hasCurrent && current.IsLockedAt(now) {
		line, err := s.optionalLine(ctx, current.TeamID, input.Week)
		if err != nil {
			return PickOutcome{}, err
		}
		return s.reject(ctx, input, RejectLocked, current.TeamID, line,
			fmt.Sprintf("Your week %d pick %s %s is already locked in, the game has started.", input.Week, current.TeamID, game.FormatOptionalLine(line))), nil
	}

	if hasCurrent && current.TeamID == teamID {
		line, err := s.optionalLine(ctx, current.TeamID, input.Week)
		if err != nil {
			return PickOutcome{}, err
		}
		return s.reject(ctx, input, RejectUnchanged, current.TeamID, line,
			fmt.Sprintf("Your week %d pick was already %s %s", input.Week, current.TeamID, game.FormatOptionalLine(line))), nil
	}

	kickoff, scheduled, err := s.board.KickoffTime(ctx, teamID, input.Week)
	if err != nil {
		return PickOutcome{}, err
	}
	if !scheduled {
		return s.reject(ctx, input, RejectNoLine, teamID, nil,
			fmt.Sprintf("Pick %s is off the board for week %d. Please select a different team.", teamID, input.Week)), nil
	}
	if !now.Before(kickoff) {
		return s.reject(ctx, input, RejectKickoffPassed, teamID, nil,
			fmt.Sprintf("Pick %s is off the board for week %d. Kick off time has passed (%s).", teamID, input.Week, s.calendar.DisplayTime(kickoff))), nil
	}

	line, ok, err := s.board.ResolveLine(ctx, teamID, input.Week)
	if err != nil {
		return PickOutcome{}, err
	}
	if !ok {
		return s.reject(ctx, input, RejectNoLine, teamID, nil,
			fmt.Sprintf("Pick %s is off the board for week %d. Please select a different team.", teamID, input.Week)), nil
	}

	var previous *pick.Pick
	if hasCurrent {
		previous = &current
	}
	lockIn := kickoff
	saved, err := s.pickRepo.Replace(ctx, previous, pick.Pick{
		PlayerID:    input.PlayerID,
		Season:      season,
		Week:        input.Week,
		TeamID:      teamID,
		SubmittedAt: now,
		LockInAt:    &lockIn,
	})
	if err != nil {
		if errors.Is(err, pick.ErrConcurrentUpdate) {
			return PickOutcome{}, fmt.Errorf("%w: pick for player=%d week=%d changed during submission", ErrDataIntegrity, input.PlayerID, input.Week)
		}
		return PickOutcome{}, fmt.Errorf("replace current pick: %w", err)
	}

	outcome := PickOutcome{
		Accepted: true,
		Week:     input.Week,
		TeamID:   teamID,
		Line:     &line,
		Message:  fmt.Sprintf("Your pick was updated successfully! Your week %d pick is now %s %s", input.Week, teamID, game.FormatLine(line)),
		Pick:     &saved,
	}
	s.logger.InfoContext(ctx, "pick accepted",
		"player_id", input.PlayerID,
		"season", season,
		"week", input.Week,
		"team_id", teamID,
		"line", line,
	)
	s.announce(ctx, participant, outcome, season)
	return outcome, nil
}

// GetCurrent returns the player's current pick for the week, or a NO_PICK
// placeholder.
func (s *PickService) GetCurrent(ctx context.Context, playerID int64, week int) (CurrentPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.GetCurrent")
	defer span.End()

	if !game.ValidWeek(week) {
		return CurrentPick{}, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, game.FirstWeek, game.FinalWeek)
	}
	current, exists, err := s.pickRepo.GetCurrent(ctx, s.calendar.Season(), playerID, week)
	if err != nil {
		return CurrentPick{}, fmt.Errorf("get current pick: %w", err)
	}
	if !exists {
		return CurrentPick{Week: week, TeamID: pick.NoPickTeam, State: pick.StateNoPick}, nil
	}
	line, err := s.optionalLine(ctx, current.TeamID, week)
	if err != nil {
		return CurrentPick{}, err
	}
	return CurrentPick{
		Week:   week,
		TeamID: current.TeamID,
		Line:   line,
		State:  current.StateAt(s.now()),
		Pick:   &current,
	}, nil
}

// ListAtKickoff returns current picks locking at kickoff, or every locked
// pick of the week when kickoff is nil.
func (s *PickService) ListAtKickoff(ctx context.Context, week int, kickoff *time.Time) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListAtKickoff")
	defer span.End()

	season := s.calendar.Season()
	if kickoff != nil {
		items, err := s.pickRepo.ListByLockIn(ctx, season, week, *kickoff)
		if err != nil {
			return nil, fmt.Errorf("list picks locking at %s: %w", kickoff.Format(time.RFC3339), err)
		}
		return items, nil
	}

	items, err := s.pickRepo.ListCurrentByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("list current picks for week=%d: %w", week, err)
	}
	now := s.now()
	out := make([]pick.Pick, 0, len(items))
	for _, item := range items {
		if item.IsLockedAt(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *PickService) optionalLine(ctx context.Context, teamID string, week int) (*float64, error) {
	line, ok, err := s.board.ResolveLine(ctx, teamID, week)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &line, nil
}

func (s *PickService) reject(ctx context.Context, input SubmitPickInput, reason RejectReason, teamID string, line *float64, message string) PickOutcome {
	s.logger.WarnContext(ctx, "pick rejected",
		"player_id", input.PlayerID,
		"week", input.Week,
		"requested_team_id", input.TeamID,
		"reason", string(reason),
	)
	return PickOutcome{
		Accepted: false,
		Reason:   reason,
		Week:     input.Week,
		TeamID:   teamID,
		Line:     line,
		Message:  message,
	}
}

func (s *PickService) announce(ctx context.Context, participant player.Player, outcome PickOutcome, season int) {
	if s.notifier != nil {
		if err := s.notifier.NotifyPickAccepted(ctx, participant, outcome); err != nil {
			s.logger.WarnContext(ctx, "pick confirmation email failed", "player_id", participant.ID, "week", outcome.Week, "error", err)
		}
	}
	event := Event{
		Type:   EventPickSubmitted,
		Key:    strconv.FormatInt(participant.ID, 10),
		Season: season,
		Week:   outcome.Week,
		Payload: map[string]any{
			"player_id": participant.ID,
			"team_id":   outcome.TeamID,
			"line":      outcome.Line,
		},
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish pick event failed", "player_id", participant.ID, "week", outcome.Week, "error", err)
	}
}
