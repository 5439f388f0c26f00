package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/authtoken"
	qb "github.com/riskibarqy/lock-of-the-week/internal/platform/querybuilder"
)

type authTokenTableModel struct {
	PlayerID  int64     `db:"player_id"`
	Season    int       `db:"season"`
	Week      int       `db:"week"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

type authTokenInsertModel struct {
	PlayerID  int64     `db:"player_id"`
	Season    int       `db:"season"`
	Week      int       `db:"week"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
}

type AuthTokenRepository struct {
	db *sqlx.DB
}

func NewAuthTokenRepository(db *sqlx.DB) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

func (r *AuthTokenRepository) Get(ctx context.Context, season int, playerID int64, week int) (authtoken.Token, bool, error) {
	query, args, err := qb.Select("*").From("auth_tokens").
		Where(qb.Eq("player_id", playerID), qb.Eq("season", season), qb.Eq("week", week)).
		Limit(1).
		ToSQL()
	if err != nil {
		return authtoken.Token{}, false, fmt.Errorf("build select auth token query: %w", err)
	}

	var row authTokenTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return authtoken.Token{}, false, nil
		}
		return authtoken.Token{}, false, fmt.Errorf("select auth token player=%d week=%d: %w", playerID, week, err)
	}
	return row.toDomain(), true, nil
}

// CreateIfAbsent relies on the no-op conflict update so RETURNING always
// yields the stored row.
func (r *AuthTokenRepository) CreateIfAbsent(ctx context.Context, item authtoken.Token) (authtoken.Token, error) {
	query, args, err := qb.InsertModel("auth_tokens", authTokenInsertModel{
		PlayerID:  item.PlayerID,
		Season:    item.Season,
		Week:      item.Week,
		Token:     item.Value,
		ExpiresAt: item.ExpiresAt.UTC(),
	}, `ON CONFLICT (player_id, season, week)
DO UPDATE SET token = auth_tokens.token
RETURNING *`)
	if err != nil {
		return authtoken.Token{}, fmt.Errorf("build insert auth token query: %w", err)
	}

	var row authTokenTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return authtoken.Token{}, fmt.Errorf("insert auth token player=%d week=%d: %w", item.PlayerID, item.Week, err)
	}
	return row.toDomain(), nil
}

func (m authTokenTableModel) toDomain() authtoken.Token {
	return authtoken.Token{
		PlayerID:  m.PlayerID,
		Season:    m.Season,
		Week:      m.Week,
		Value:     m.Token,
		ExpiresAt: m.ExpiresAt,
	}
}
