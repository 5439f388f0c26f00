package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	qb "github.com/riskibarqy/lock-of-the-week/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListByWeek(ctx context.Context, season, week int) ([]game.Game, error) {
	return r.list(ctx, "week", qb.Eq("season", season), qb.Eq("week", week))
}

func (r *GameRepository) ListByTeamWeek(ctx context.Context, season, week int, teamID string) ([]game.Game, error) {
	teamID = strings.ToUpper(strings.TrimSpace(teamID))
	return r.list(ctx, "team week",
		qb.Eq("season", season),
		qb.Eq("week", week),
		qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
	)
}

func (r *GameRepository) ListScoredBySeason(ctx context.Context, season int) ([]game.Game, error) {
	return r.list(ctx, "scored",
		qb.Eq("season", season),
		qb.IsNotNull("home_ats"),
		qb.IsNotNull("away_ats"),
	)
}

func (r *GameRepository) ListWeeksBetween(ctx context.Context, season int, from, to time.Time) ([]int, error) {
	query, args, err := qb.Select("DISTINCT week").From("games").
		Where(
			qb.Eq("season", season),
			qb.Gte("kickoff_at", from.UTC()),
			qb.Lt("kickoff_at", to.UTC()),
		).
		OrderBy("week").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game weeks query: %w", err)
	}

	var weeks []int
	if err := r.db.SelectContext(ctx, &weeks, query, args...); err != nil {
		return nil, fmt.Errorf("select game weeks season=%d: %w", season, err)
	}
	return weeks, nil
}

func (r *GameRepository) list(ctx context.Context, label string, conditions ...qb.Condition) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(conditions...).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s games query: %w", label, err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s games: %w", label, err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
