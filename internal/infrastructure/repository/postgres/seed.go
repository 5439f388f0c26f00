package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/lock-of-the-week/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/lock-of-the-week/internal/platform/querybuilder"
)

// BootstrapSeed fills the teams table from the embedded catalog on first
// start. Existing rows are left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var seeded bool
	if err := db.GetContext(ctx, &seeded, `SELECT EXISTS (SELECT 1 FROM teams)`); err != nil {
		return fmt.Errorf("check teams before seeding: %w", err)
	}
	if seeded {
		return nil
	}

	teams, err := memory.SeedTeams()
	if err != nil {
		return err
	}
	if len(teams) == 0 {
		return nil
	}

	insert := qb.InsertInto("teams").Columns("id", "city", "nickname").Suffix("ON CONFLICT (id) DO NOTHING")
	for _, t := range teams {
		insert.Values(t.ID, t.City, t.Nickname)
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build team seed query: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed %d teams: %w", len(teams), err)
	}
	return nil
}
