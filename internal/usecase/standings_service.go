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
	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

type RecomputeResult struct {
	Season      int `json:"season"`
	ThroughWeek int `json:"through_week"`
	Players     int `json:"players"`
}

type StandingsService struct {
	playerRepo   player.Repository
	pickRepo     pick.Repository
	standingRepo standing.Repository
	calendar     *Calendar
	events       EventPublisher
	logger       *logging.Logger
	now          func() time.Time
}

func NewStandingsService(
	playerRepo player.Repository,
	pickRepo pick.Repository,
	standingRepo standing.Repository,
	calendar *Calendar,
	events EventPublisher,
	logger *logging.Logger,
) *StandingsService {
	if events == nil {
		events = NewNoopEventPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		playerRepo:   playerRepo,
		pickRepo:     pickRepo,
		standingRepo: standingRepo,
		calendar:     calendar,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// Recompute rebuilds every registered player's row through the given week.
// All rows are tallied before the first write so an integrity fault leaves
// the stored standings untouched.
func (s *StandingsService) Recompute(ctx context.Context, throughWeek int) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Recompute")
	defer span.End()

	if throughWeek < game.PreseasonWeek || throughWeek > game.FinalWeek {
		return RecomputeResult{}, fmt.Errorf("%w: through week must be between %d and %d", ErrInvalidInput, game.PreseasonWeek, game.FinalWeek)
	}

	season := s.calendar.Season()
	players, err := s.playerRepo.ListRegistered(ctx, season)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list registered players: %w", err)
	}

	rows := make([]standing.Standing, 0, len(players))
	for _, participant := range players {
		picks, err := s.pickRepo.ListCurrentByPlayer(ctx, season, participant.ID, throughWeek)
		if err != nil {
			return RecomputeResult{}, fmt.Errorf("list picks for player=%d: %w", participant.ID, err)
		}
		row, err := standing.Tally(participant.ID, season, throughWeek, picks)
		if err != nil {
			if errors.Is(err, standing.ErrUnscoredPick) || errors.Is(err, standing.ErrDuplicateWeek) {
				return RecomputeResult{}, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
			}
			return RecomputeResult{}, fmt.Errorf("tally player=%d: %w", participant.ID, err)
		}
		row.FirstName = participant.FirstName
		row.LastName = participant.LastName
		row.Titles = participant.Titles
		row.IsRookie = participant.IsRookie
		rows = append(rows, row)
	}

	for _, row := range rows {
		if err := s.standingRepo.Upsert(ctx, row); err != nil {
			return RecomputeResult{}, fmt.Errorf("upsert standing player=%d: %w", row.PlayerID, err)
		}
		s.logger.DebugContext(ctx, "standing written", "player_id", row.PlayerID, "wins", row.Wins, "losses", row.Losses, "ats", row.ATSPoints)
	}

	s.logger.InfoContext(ctx, "standings recomputed", "season", season, "through_week", throughWeek, "players", len(rows))
	event := Event{
		Type:       EventStandingsComputed,
		Key:        strconv.Itoa(season),
		Season:     season,
		Week:       throughWeek,
		Payload:    map[string]any{"players": len(rows)},
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish standings event failed", "through_week", throughWeek, "error", err)
	}
	return RecomputeResult{Season: season, ThroughWeek: throughWeek, Players: len(rows)}, nil
}

// List returns the season standings in display order.
func (s *StandingsService) List(ctx context.Context) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.List")
	defer span.End()

	items, err := s.standingRepo.ListBySeason(ctx, s.calendar.Season())
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	standing.Sort(items)
	return items, nil
}
