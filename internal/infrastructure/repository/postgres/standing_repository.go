package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
	qb "github.com/riskibarqy/lock-of-the-week/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) Upsert(ctx context.Context, item standing.Standing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert standing: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("standings", standingInsertModel{
		PlayerID:      item.PlayerID,
		Season:        item.Season,
		ThroughWeek:   item.ThroughWeek,
		Wins:          item.Wins,
		Losses:        item.Losses,
		WinPercentage: item.WinPercentage,
		ATSPoints:     item.ATSPoints,
	}, `ON CONFLICT (player_id, season)
DO UPDATE SET
    through_week = EXCLUDED.through_week,
    wins = EXCLUDED.wins,
    losses = EXCLUDED.losses,
    win_percentage = EXCLUDED.win_percentage,
    ats_points = EXCLUDED.ats_points,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert standing query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert standing player=%d season=%d: %w", item.PlayerID, item.Season, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert standing tx: %w", err)
	}
	return nil
}

func (r *StandingRepository) ListBySeason(ctx context.Context, season int) ([]standing.Standing, error) {
	query, args, err := qb.Select(
		"s.player_id", "s.season", "s.through_week", "s.wins", "s.losses",
		"s.win_percentage", "s.ats_points", "s.updated_at",
		"p.first_name", "p.last_name", "p.titles", "p.is_rookie",
	).
		From("standings s").
		Join("JOIN players p ON p.id = s.player_id").
		Where(qb.Eq("s.season", season)).
		OrderBy("s.win_percentage DESC", "s.ats_points DESC", "LOWER(p.last_name)", "LOWER(p.first_name)").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query: %w", err)
	}

	var rows []standingRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings season=%d: %w", season, err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	standing.Sort(out)
	return out, nil
}
