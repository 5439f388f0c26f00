package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/lock-of-the-week/internal/config"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/authtoken"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/bulletin"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/jobscheduler"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/scoring"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
	cacherepo "github.com/riskibarqy/lock-of-the-week/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/lock-of-the-week/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/lock-of-the-week/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/lock-of-the-week/internal/platform/cache"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

type repositories struct {
	teams team.Repository
	games game.Repository
	// liveGames bypasses the local cache. Pick submission and scoring read
	// through it so edited lines and posted scores apply at once.
	liveGames  game.Repository
	players    player.Repository
	picks      pick.Repository
	standings  standing.Repository
	tokens     authtoken.Repository
	bulletins  bulletin.Repository
	scoring    scoring.Repository
	dispatches jobscheduler.Repository
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger, closers *closerStack) (repositories, error) {
	var repos repositories
	switch cfg.StorageDriver {
	case config.StorageMemory:
		store, err := memory.NewSeededStore()
		if err != nil {
			return repositories{}, err
		}
		repos = memoryRepositories(store)
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		closers.push("postgres", func(context.Context) error { return db.Close() })
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			return repositories{}, err
		}
		repos = postgresRepositories(db)
	}

	repos = withLocalCache(repos, cfg)

	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers.push("redis", func(context.Context) error { return client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, standings reads fall through to storage", "addr", cfg.RedisAddr, "error", err)
		}
		repos.standings = cacherepo.NewStandingRedisRepository(repos.standings, client, cfg.StandingsCacheTTL, logger)
	}

	return repos, nil
}

// withLocalCache puts the in-process cache in front of team and game reads.
// liveGames keeps the undecorated repository.
func withLocalCache(repos repositories, cfg config.Config) repositories {
	repos.liveGames = repos.games
	if !cfg.CacheEnabled {
		return repos
	}
	store := basecache.NewStore(cfg.CacheTTL)
	repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
	repos.games = cacherepo.NewGameRepository(repos.games, store)
	repos.scoring = cacherepo.NewScoringRepository(repos.scoring, store)
	return repos
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		teams:      memory.NewTeamRepository(store),
		games:      memory.NewGameRepository(store),
		players:    memory.NewPlayerRepository(store),
		picks:      memory.NewPickRepository(store),
		standings:  memory.NewStandingRepository(store),
		tokens:     memory.NewAuthTokenRepository(store),
		bulletins:  memory.NewBulletinRepository(store),
		scoring:    memory.NewScoringRepository(store),
		dispatches: memory.NewJobDispatchRepository(store),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		teams:      postgres.NewTeamRepository(db),
		games:      postgres.NewGameRepository(db),
		players:    postgres.NewPlayerRepository(db),
		picks:      postgres.NewPickRepository(db),
		standings:  postgres.NewStandingRepository(db),
		tokens:     postgres.NewAuthTokenRepository(db),
		bulletins:  postgres.NewBulletinRepository(db),
		scoring:    postgres.NewScoringRepository(db),
		dispatches: postgres.NewJobDispatchRepository(db),
	}
}

type namedCloser struct {
	name string
	fn   func(context.Context) error
}

// closerStack releases resources in reverse order of acquisition.
type closerStack struct {
	items []namedCloser
}

func (s *closerStack) push(name string, fn func(context.Context) error) {
	s.items = append(s.items, namedCloser{name: name, fn: fn})
}

func (s *closerStack) closeAll(ctx context.Context, logger *logging.Logger) error {
	var firstErr error
	for i := len(s.items) - 1; i >= 0; i-- {
		item := s.items[i]
		if err := item.fn(ctx); err != nil {
			logger.Error("close resource failed", "resource", item.name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("close %s: %w", item.name, err)
			}
		}
	}
	s.items = nil
	return firstErr
}
