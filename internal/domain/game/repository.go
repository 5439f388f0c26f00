package game

import (
	"context"
	"time"
)

// Repository describes game persistence needs from use cases.
type Repository interface {
	ListByWeek(ctx context.Context, season, week int) ([]Game, error)
	ListByTeamWeek(ctx context.Context, season, week int, teamID string) ([]Game, error)
	ListWeeksBetween(ctx context.Context, season int, from, to time.Time) ([]int, error)
	ListScoredBySeason(ctx context.Context, season int) ([]Game, error)
}
