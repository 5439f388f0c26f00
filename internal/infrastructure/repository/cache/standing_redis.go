package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

const standingsKeyPrefix = "lotw:standings:"

// redisKV is the subset of redis.Cmdable used by the standings cache.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type standingCacheRow struct {
	PlayerID      int64   `json:"player_id"`
	Season        int     `json:"season"`
	ThroughWeek   int     `json:"through_week"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPercentage float64 `json:"win_percentage"`
	ATSPoints     float64 `json:"ats_points"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Titles        int     `json:"titles"`
	IsRookie      bool    `json:"is_rookie"`
}

// StandingRedisRepository keeps the season table in Redis. Tables are cached
// under a per-season generation that every write bumps after the store
// commits, so a reader that loaded rows before the write can only fill a
// generation nobody reads anymore. Redis failures are logged and the store is
// read directly.
type StandingRedisRepository struct {
	next   standing.Repository
	client redisKV
	ttl    time.Duration
	logger *logging.Logger
}

func NewStandingRedisRepository(next standing.Repository, client redisKV, ttl time.Duration, logger *logging.Logger) *StandingRedisRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingRedisRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (r *StandingRedisRepository) Upsert(ctx context.Context, item standing.Standing) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.Invalidate(ctx, item.Season)
	return nil
}

// Invalidate retires the season's cached table.
func (r *StandingRedisRepository) Invalidate(ctx context.Context, season int) {
	if err := r.client.Incr(ctx, generationKey(season)).Err(); err != nil {
		r.logger.WarnContext(ctx, "invalidate standings cache failed", "season", season, "error", err)
	}
}

func (r *StandingRedisRepository) ListBySeason(ctx context.Context, season int) ([]standing.Standing, error) {
	generation, err := r.client.Get(ctx, generationKey(season)).Result()
	switch {
	case crerr.Is(err, redis.Nil):
		generation = "0"
	case err != nil:
		r.logger.WarnContext(ctx, "read standings generation failed", "season", season, "error", err)
		return r.next.ListBySeason(ctx, season)
	}

	key := standingsKey(season, generation)
	cached, err := r.read(ctx, key)
	switch {
	case err == nil:
		return cached, nil
	case !crerr.Is(err, redis.Nil):
		r.logger.WarnContext(ctx, "read standings cache failed", "season", season, "error", err)
	}

	items, err := r.next.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}
	if err := r.write(ctx, key, items); err != nil {
		r.logger.WarnContext(ctx, "write standings cache failed", "season", season, "error", err)
	}
	return items, nil
}

func (r *StandingRedisRepository) read(ctx context.Context, key string) ([]standing.Standing, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var rows []standingCacheRow
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, crerr.Wrapf(err, "decode standings cache key=%s", key)
	}
	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			PlayerID:      row.PlayerID,
			Season:        row.Season,
			ThroughWeek:   row.ThroughWeek,
			Wins:          row.Wins,
			Losses:        row.Losses,
			WinPercentage: row.WinPercentage,
			ATSPoints:     row.ATSPoints,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Titles:        row.Titles,
			IsRookie:      row.IsRookie,
		})
	}
	return out, nil
}

func (r *StandingRedisRepository) write(ctx context.Context, key string, items []standing.Standing) error {
	rows := make([]standingCacheRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, standingCacheRow{
			PlayerID:      item.PlayerID,
			Season:        item.Season,
			ThroughWeek:   item.ThroughWeek,
			Wins:          item.Wins,
			Losses:        item.Losses,
			WinPercentage: item.WinPercentage,
			ATSPoints:     item.ATSPoints,
			FirstName:     item.FirstName,
			LastName:      item.LastName,
			Titles:        item.Titles,
			IsRookie:      item.IsRookie,
		})
	}
	raw, err := sonic.Marshal(rows)
	if err != nil {
		return crerr.Wrap(err, "encode standings cache")
	}
	return r.client.Set(ctx, key, raw, r.ttl).Err()
}

func standingsKey(season int, generation string) string {
	return standingsKeyPrefix + strconv.Itoa(season) + ":" + generation
}

func generationKey(season int) string {
	return standingsKeyPrefix + strconv.Itoa(season) + ":generation"
}
