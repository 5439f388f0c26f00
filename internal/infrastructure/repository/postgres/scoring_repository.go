package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/scoring"
	qb "github.com/riskibarqy/lock-of-the-week/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

// ApplyWeekResults writes game and pick ATS values in one transaction. A row
// that no longer matches aborts the whole week.
func (r *ScoringRepository) ApplyWeekResults(ctx context.Context, results scoring.WeekResults) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx apply week results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range results.Games {
		query, args, err := qb.Update("games").
			Set("home_ats", item.HomeATS).
			Set("away_ats", item.AwayATS).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("id", item.GameID),
				qb.Eq("season", results.Season),
				qb.Eq("week", results.Week),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update game ats query: %w", err)
		}
		if err := execOne(ctx, tx, query, args...); err != nil {
			return fmt.Errorf("update game=%d ats: %w", item.GameID, err)
		}
	}

	for _, item := range results.Picks {
		query, args, err := qb.Update("picks").
			Set("ats", item.ATS).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("id", item.PickID),
				qb.Eq("player_id", item.PlayerID),
				qb.Eq("week", results.Week),
				qb.IsNotNull("lock_in_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update pick ats query: %w", err)
		}
		if err := execOne(ctx, tx, query, args...); err != nil {
			return fmt.Errorf("update pick=%d player=%d ats: %w", item.PickID, item.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply week results tx: %w", err)
	}
	return nil
}

func execOne(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return fmt.Errorf("expected 1 row, updated %d", affected)
	}
	return nil
}
