package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/bulletin"
	qb "github.com/riskibarqy/lock-of-the-week/internal/platform/querybuilder"
)

type commissionerMessageTableModel struct {
	ID        int64     `db:"id"`
	Subject   string    `db:"subject"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

type BulletinRepository struct {
	db *sqlx.DB
}

func NewBulletinRepository(db *sqlx.DB) *BulletinRepository {
	return &BulletinRepository{db: db}
}

func (r *BulletinRepository) GetStandingsNote(ctx context.Context, season, week int) (string, bool, error) {
	query, args, err := qb.Select("message").From("standings_messages").
		Where(qb.Eq("season", season), qb.Eq("week", week)).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build select standings message query: %w", err)
	}

	var message string
	if err := r.db.GetContext(ctx, &message, query, args...); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select standings message week=%d: %w", week, err)
	}
	return message, true, nil
}

func (r *BulletinRepository) GetBroadcast(ctx context.Context, id int64) (bulletin.Broadcast, bool, error) {
	query, args, err := qb.Select("*").From("commissioner_messages").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return bulletin.Broadcast{}, false, fmt.Errorf("build select commissioner message query: %w", err)
	}

	var row commissionerMessageTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bulletin.Broadcast{}, false, nil
		}
		return bulletin.Broadcast{}, false, fmt.Errorf("select commissioner message id=%d: %w", id, err)
	}
	return bulletin.Broadcast{ID: row.ID, Subject: row.Subject, Body: row.Body}, true, nil
}
