package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
)

// BoardService exposes the weekly game board: lines and kickoff times.
type BoardService struct {
	gameRepo game.Repository
	teamRepo team.Repository
	calendar *Calendar
}

func NewBoardService(gameRepo game.Repository, teamRepo team.Repository, calendar *Calendar) *BoardService {
	return &BoardService{
		gameRepo: gameRepo,
		teamRepo: teamRepo,
		calendar: calendar,
	}
}

// ResolveLine returns the team's line for the week. The away line is the
// negated home line.
func (s *BoardService) ResolveLine(ctx context.Context, teamID string, week int) (float64, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.ResolveLine")
	defer span.End()

	item, ok, err := s.teamGame(ctx, teamID, week)
	if err != nil || !ok {
		return 0, false, err
	}
	line, ok := item.LineFor(team.NormalizeID(teamID))
	return line, ok, nil
}

// KickoffTime returns the start of the team's game for the week.
func (s *BoardService) KickoffTime(ctx context.Context, teamID string, week int) (time.Time, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.KickoffTime")
	defer span.End()

	item, ok, err := s.teamGame(ctx, teamID, week)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return item.KickoffAt, true, nil
}

// ListWeek returns the week's games ordered by kickoff.
func (s *BoardService) ListWeek(ctx context.Context, week int) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.ListWeek")
	defer span.End()

	if !game.ValidWeek(week) {
		return nil, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, game.FirstWeek, game.FinalWeek)
	}
	items, err := s.gameRepo.ListByWeek(ctx, s.calendar.Season(), week)
	if err != nil {
		return nil, fmt.Errorf("list games for week=%d: %w", week, err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// LastKickoff returns the latest kickoff of the week.
func (s *BoardService) LastKickoff(ctx context.Context, week int) (time.Time, bool, error) {
	items, err := s.ListWeek(ctx, week)
	if err != nil {
		return time.Time{}, false, err
	}
	if len(items) == 0 {
		return time.Time{}, false, nil
	}
	return items[len(items)-1].KickoffAt, true, nil
}

func (s *BoardService) teamGame(ctx context.Context, teamID string, week int) (game.Game, bool, error) {
	teamID = team.NormalizeID(teamID)
	if teamID == "" {
		return game.Game{}, false, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	items, err := s.gameRepo.ListByTeamWeek(ctx, s.calendar.Season(), week, teamID)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("list games for team=%s week=%d: %w", teamID, week, err)
	}
	switch len(items) {
	case 0:
		return game.Game{}, false, nil
	case 1:
		return items[0], true, nil
	default:
		return game.Game{}, false, fmt.Errorf("%w: team=%s has %d games in week=%d", ErrDataIntegrity, teamID, len(items), week)
	}
}

// Teams returns the team catalog keyed by id.
func (s *BoardService) Teams(ctx context.Context) (map[string]team.Team, error) {
	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make(map[string]team.Team, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}
