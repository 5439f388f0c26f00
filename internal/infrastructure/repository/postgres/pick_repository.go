package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	qb "github.com/riskibarqy/lock-of-the-week/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetCurrent(ctx context.Context, season int, playerID int64, week int) (pick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("season", season),
			qb.Eq("player_id", playerID),
			qb.Eq("week", week),
			qb.IsNotNull("lock_in_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build select current pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("select current pick player=%d week=%d: %w", playerID, week, err)
	}
	return row.toDomain(), true, nil
}

// Replace clears the lock-in of previous and inserts next in one transaction.
// The partial unique index on current picks rejects a competing insert.
func (r *PickRepository) Replace(ctx context.Context, previous *pick.Pick, next pick.Pick) (pick.Pick, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("begin tx replace pick: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if previous != nil {
		clearQuery, clearArgs, err := qb.Update("picks").
			Set("lock_in_at", nil).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", previous.ID), qb.IsNotNull("lock_in_at")).
			ToSQL()
		if err != nil {
			return pick.Pick{}, fmt.Errorf("build supersede pick query: %w", err)
		}
		res, err := tx.ExecContext(ctx, clearQuery, clearArgs...)
		if err != nil {
			return pick.Pick{}, fmt.Errorf("supersede pick id=%d: %w", previous.ID, err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return pick.Pick{}, fmt.Errorf("supersede pick id=%d rows affected: %w", previous.ID, err)
		} else if affected != 1 {
			return pick.Pick{}, pick.ErrConcurrentUpdate
		}
	}

	insertQuery, insertArgs, err := qb.InsertModel("picks", pickInsertModel{
		PlayerID:    next.PlayerID,
		Season:      next.Season,
		Week:        next.Week,
		TeamID:      next.TeamID,
		SubmittedAt: next.SubmittedAt.UTC(),
		LockInAt:    next.LockInAt,
	}, "RETURNING id")
	if err != nil {
		return pick.Pick{}, fmt.Errorf("build insert pick query: %w", err)
	}
	if err := tx.QueryRowxContext(ctx, insertQuery, insertArgs...).Scan(&next.ID); err != nil {
		if isUniqueViolation(err) {
			return pick.Pick{}, pick.ErrConcurrentUpdate
		}
		return pick.Pick{}, fmt.Errorf("insert pick player=%d week=%d: %w", next.PlayerID, next.Week, err)
	}

	if err := tx.Commit(); err != nil {
		return pick.Pick{}, fmt.Errorf("commit replace pick tx: %w", err)
	}
	next.ATS = nil
	return next, nil
}

func (r *PickRepository) ListCurrentByWeek(ctx context.Context, season, week int) ([]pick.Pick, error) {
	return r.listCurrent(ctx, "week", qb.Eq("season", season), qb.Eq("week", week))
}

func (r *PickRepository) ListCurrentByPlayer(ctx context.Context, season int, playerID int64, throughWeek int) ([]pick.Pick, error) {
	return r.listCurrent(ctx, "player", qb.Eq("season", season), qb.Eq("player_id", playerID), qb.Lte("week", throughWeek))
}

func (r *PickRepository) ListByLockIn(ctx context.Context, season, week int, lockInAt time.Time) ([]pick.Pick, error) {
	return r.listCurrent(ctx, "lock-in", qb.Eq("season", season), qb.Eq("week", week), qb.Eq("lock_in_at", lockInAt.UTC()))
}

func (r *PickRepository) ListLockedSince(ctx context.Context, fromSeason int, lockedBy time.Time) ([]pick.Pick, error) {
	return r.listCurrent(ctx, "career", qb.Gte("season", fromSeason), qb.Lte("lock_in_at", lockedBy.UTC()))
}

func (r *PickRepository) listCurrent(ctx context.Context, label string, conditions ...qb.Condition) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(append(conditions, qb.IsNotNull("lock_in_at"))...).
		OrderBy("season", "week", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select current picks by %s query: %w", label, err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select current picks by %s: %w", label, err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
