package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/scoring"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

type ScoreWeekResult struct {
	Season  int    `json:"season"`
	Week    int    `json:"week"`
	Games   int    `json:"games"`
	Picks   int    `json:"picks"`
	Message string `json:"message"`
}

// ScoringService turns final scores into ATS values for games and picks.
type ScoringService struct {
	gameRepo    game.Repository
	pickRepo    pick.Repository
	scoringRepo scoring.Repository
	calendar    *Calendar
	events      EventPublisher
	logger      *logging.Logger
	now         func() time.Time
}

func NewScoringService(
	gameRepo game.Repository,
	pickRepo pick.Repository,
	scoringRepo scoring.Repository,
	calendar *Calendar,
	events EventPublisher,
	logger *logging.Logger,
) *ScoringService {
	if events == nil {
		events = NewNoopEventPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		gameRepo:    gameRepo,
		pickRepo:    pickRepo,
		scoringRepo: scoringRepo,
		calendar:    calendar,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// ScoreWeek computes and stores ATS values for a completed week. Nothing is
// written unless every game and pick of the week can be scored.
func (s *ScoringService) ScoreWeek(ctx context.Context, week int) (ScoreWeekResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreWeek")
	defer span.End()

	season := s.calendar.Season()
	if week == game.PreseasonWeek {
		return ScoreWeekResult{Season: season, Week: week, Message: "No updates made for week 0"}, nil
	}
	if !game.ValidWeek(week) {
		return ScoreWeekResult{}, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, game.PreseasonWeek, game.FinalWeek)
	}

	active, known, err := s.calendar.CurrentWeek(ctx)
	if err != nil {
		return ScoreWeekResult{}, err
	}
	if known && week >= active && week < game.FinalWeek {
		return ScoreWeekResult{}, fmt.Errorf("%w: week %d is not complete, current week is %d", ErrInvalidInput, week, active)
	}

	games, err := s.gameRepo.ListByWeek(ctx, season, week)
	if err != nil {
		return ScoreWeekResult{}, fmt.Errorf("list games for week=%d: %w", week, err)
	}
	if len(games) == 0 {
		return ScoreWeekResult{}, fmt.Errorf("%w: no games scheduled for week %d", ErrInvalidInput, week)
	}

	results := scoring.WeekResults{
		Season: season,
		Week:   week,
		Games:  make([]game.ATSResult, 0, len(games)),
	}
	teamATS := make(map[string]float64, len(games)*2)
	for _, item := range games {
		if !item.IsFinal() {
			return ScoreWeekResult{}, fmt.Errorf("%w: game=%d (%s at %s) is missing a final score", ErrDataIntegrity, item.ID, item.AwayTeamID, item.HomeTeamID)
		}
		if item.HomeLine == nil {
			return ScoreWeekResult{}, fmt.Errorf("%w: game=%d (%s at %s) has no line", ErrDataIntegrity, item.ID, item.AwayTeamID, item.HomeTeamID)
		}
		homeATS, awayATS := game.ComputeATS(*item.HomeLine, *item.HomeScore, *item.AwayScore)
		results.Games = append(results.Games, game.ATSResult{GameID: item.ID, HomeATS: homeATS, AwayATS: awayATS})
		teamATS[item.HomeTeamID] = homeATS
		teamATS[item.AwayTeamID] = awayATS
	}

	picks, err := s.pickRepo.ListCurrentByWeek(ctx, season, week)
	if err != nil {
		return ScoreWeekResult{}, fmt.Errorf("list current picks for week=%d: %w", week, err)
	}
	results.Picks = make([]pick.ATSResult, 0, len(picks))
	for _, item := range picks {
		ats, ok := teamATS[item.TeamID]
		if !ok {
			return ScoreWeekResult{}, fmt.Errorf("%w: pick=%d player=%d team=%s has no ats value for week %d", ErrDataIntegrity, item.ID, item.PlayerID, item.TeamID, week)
		}
		results.Picks = append(results.Picks, pick.ATSResult{PickID: item.ID, PlayerID: item.PlayerID, ATS: ats})
	}

	if err := s.scoringRepo.ApplyWeekResults(ctx, results); err != nil {
		return ScoreWeekResult{}, fmt.Errorf("apply week results week=%d: %w", week, err)
	}

	out := ScoreWeekResult{
		Season:  season,
		Week:    week,
		Games:   len(results.Games),
		Picks:   len(results.Picks),
		Message: fmt.Sprintf("Successfully updated ATS values for week %d", week),
	}
	s.logger.InfoContext(ctx, "week scored", "season", season, "week", week, "games", out.Games, "picks", out.Picks)

	event := Event{
		Type:       EventWeekScored,
		Key:        strconv.Itoa(season) + "-" + strconv.Itoa(week),
		Season:     season,
		Week:       week,
		Payload:    map[string]any{"games": out.Games, "picks": out.Picks},
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish week scored event failed", "week", week, "error", err)
	}
	return out, nil
}
