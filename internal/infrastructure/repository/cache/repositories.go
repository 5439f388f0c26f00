package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/scoring"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
	basecache "github.com/riskibarqy/lock-of-the-week/internal/platform/cache"
)

const gameKeyPrefix = "game:"

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, "team:list", func(ctx context.Context) ([]team.Team, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + team.NormalizeID(teamID)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedTeamByID, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return cachedTeamByID{}, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

// GameRepository caches schedule reads. Entries are dropped by
// ScoringRepository whenever ATS values are written.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) ListByWeek(ctx context.Context, season, week int) ([]game.Game, error) {
	key := gameKey("week", strconv.Itoa(season), strconv.Itoa(week))
	return r.load(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListByWeek(ctx, season, week)
	})
}

func (r *GameRepository) ListByTeamWeek(ctx context.Context, season, week int, teamID string) ([]game.Game, error) {
	key := gameKey("team", strconv.Itoa(season), strconv.Itoa(week), team.NormalizeID(teamID))
	return r.load(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListByTeamWeek(ctx, season, week, teamID)
	})
}

func (r *GameRepository) ListScoredBySeason(ctx context.Context, season int) ([]game.Game, error) {
	key := gameKey("scored", strconv.Itoa(season))
	return r.load(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListScoredBySeason(ctx, season)
	})
}

func (r *GameRepository) ListWeeksBetween(ctx context.Context, season int, from, to time.Time) ([]int, error) {
	key := gameKey("weeks", strconv.Itoa(season), strconv.FormatInt(from.Unix(), 10), strconv.FormatInt(to.Unix(), 10))
	weeks, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]int, error) {
		return r.next.ListWeeksBetween(ctx, season, from, to)
	})
	if err != nil {
		return nil, err
	}
	return append([]int(nil), weeks...), nil
}

func (r *GameRepository) load(ctx context.Context, key string, loader func(context.Context) ([]game.Game, error)) ([]game.Game, error) {
	items, err := basecache.Load(ctx, r.cache, key, loader)
	if err != nil {
		return nil, err
	}
	return append([]game.Game(nil), items...), nil
}

// ScoringRepository invalidates cached games after a week is scored.
type ScoringRepository struct {
	next  scoring.Repository
	cache *basecache.Store
}

func NewScoringRepository(next scoring.Repository, cache *basecache.Store) *ScoringRepository {
	return &ScoringRepository{next: next, cache: cache}
}

func (r *ScoringRepository) ApplyWeekResults(ctx context.Context, results scoring.WeekResults) error {
	if err := r.next.ApplyWeekResults(ctx, results); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, gameKeyPrefix)
	return nil
}

func gameKey(parts ...string) string {
	return gameKeyPrefix + strings.Join(parts, ":")
}
