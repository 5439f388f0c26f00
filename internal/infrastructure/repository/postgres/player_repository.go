package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	qb "github.com/riskibarqy/lock-of-the-week/internal/platform/querybuilder"
)

const playerColumns = "p.*, COALESCE(ps.registered, FALSE) AS registered, COALESCE(ps.paid, FALSE) AS paid"

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, season int, playerID int64) (player.Player, bool, error) {
	query, args, err := r.selectForSeason(season).
		Where(qb.Eq("p.id", playerID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player id=%d: %w", playerID, err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByEmail(ctx context.Context, email string) (player.Player, bool, error) {
	query, args, err := qb.Select("p.*", "FALSE AS registered", "FALSE AS paid").From("players p").
		Where(qb.Expr("LOWER(p.email) = LOWER(?)", strings.TrimSpace(email))).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by email query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by email: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (player.Player, error) {
	query, args, err := qb.InsertModel("players", playerInsertModel{
		Email:     item.Email,
		FirstName: item.FirstName,
		LastName:  item.LastName,
		Titles:    item.Titles,
		IsRookie:  item.IsRookie,
	}, "RETURNING id")
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&item.ID); err != nil {
		if isUniqueViolation(err) {
			return player.Player{}, fmt.Errorf("player email %s already exists", item.Email)
		}
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}
	item.Registered, item.Paid = false, false
	return item, nil
}

func (r *PlayerRepository) ListRegistered(ctx context.Context, season int) ([]player.Player, error) {
	return r.list(ctx, "registered", r.selectForSeason(season).Where(qb.Eq("ps.registered", true)))
}

func (r *PlayerRepository) ListPaid(ctx context.Context, season int) ([]player.Player, error) {
	return r.list(ctx, "paid", r.selectForSeason(season).Where(qb.Eq("ps.registered", true), qb.Eq("ps.paid", true)))
}

func (r *PlayerRepository) ListPastRegistered(ctx context.Context, season int) ([]player.Player, error) {
	builder := r.selectForSeason(season).
		Join(fmt.Sprintf("LEFT JOIN player_seasons prev ON prev.player_id = p.id AND prev.season = %d", season-1)).
		Where(qb.Expr("(COALESCE(prev.registered, FALSE) OR p.is_rookie)"))
	return r.list(ctx, "past registered", builder)
}

func (r *PlayerRepository) SetRegistration(ctx context.Context, season int, playerID int64, registered bool) error {
	return r.upsertSeason(ctx, playerSeasonInsertModel{PlayerID: playerID, Season: season, Registered: registered}, `ON CONFLICT (player_id, season)
DO UPDATE SET
    registered = EXCLUDED.registered,
    paid = CASE WHEN EXCLUDED.registered THEN player_seasons.paid ELSE FALSE END,
    updated_at = NOW()`)
}

func (r *PlayerRepository) SetPaid(ctx context.Context, season int, playerID int64, paid bool) error {
	return r.upsertSeason(ctx, playerSeasonInsertModel{PlayerID: playerID, Season: season, Paid: paid}, `ON CONFLICT (player_id, season)
DO UPDATE SET
    paid = EXCLUDED.paid,
    updated_at = NOW()`)
}

func (r *PlayerRepository) upsertSeason(ctx context.Context, model playerSeasonInsertModel, suffix string) error {
	query, args, err := qb.InsertModel("player_seasons", model, suffix)
	if err != nil {
		return fmt.Errorf("build upsert player season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player season player=%d season=%d: %w", model.PlayerID, model.Season, err)
	}
	return nil
}

// selectForSeason joins the season flags. season is an int so it is safe to
// inline into the join clause.
func (r *PlayerRepository) selectForSeason(season int) *qb.SelectBuilder {
	return qb.Select(playerColumns).From("players p").
		Join(fmt.Sprintf("LEFT JOIN player_seasons ps ON ps.player_id = p.id AND ps.season = %d", season))
}

func (r *PlayerRepository) list(ctx context.Context, label string, builder *qb.SelectBuilder) ([]player.Player, error) {
	query, args, err := builder.OrderBy("LOWER(p.last_name)", "p.id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s players query: %w", label, err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s players: %w", label, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
