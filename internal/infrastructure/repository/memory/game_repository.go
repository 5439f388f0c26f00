package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
)

type GameRepository struct {
	store *Store
}

func NewGameRepository(store *Store) *GameRepository {
	return &GameRepository{store: store}
}

func (r *GameRepository) ListByWeek(_ context.Context, season, week int) ([]game.Game, error) {
	return r.filter(func(item game.Game) bool {
		return item.Season == season && item.Week == week
	}), nil
}

func (r *GameRepository) ListByTeamWeek(_ context.Context, season, week int, teamID string) ([]game.Game, error) {
	teamID = team.NormalizeID(teamID)
	return r.filter(func(item game.Game) bool {
		return item.Season == season && item.Week == week && item.Involves(teamID)
	}), nil
}

func (r *GameRepository) ListWeeksBetween(_ context.Context, season int, from, to time.Time) ([]int, error) {
	items := r.filter(func(item game.Game) bool {
		return item.Season == season && !item.KickoffAt.Before(from) && item.KickoffAt.Before(to)
	})
	seen := make(map[int]struct{}, len(items))
	weeks := make([]int, 0, 1)
	for _, item := range items {
		if _, ok := seen[item.Week]; ok {
			continue
		}
		seen[item.Week] = struct{}{}
		weeks = append(weeks, item.Week)
	}
	sort.Ints(weeks)
	return weeks, nil
}

func (r *GameRepository) ListScoredBySeason(_ context.Context, season int) ([]game.Game, error) {
	return r.filter(func(item game.Game) bool {
		return item.Season == season && item.IsScored()
	}), nil
}

func (r *GameRepository) filter(keep func(game.Game) bool) []game.Game {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.store.games {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
