package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
)

type gameTableModel struct {
	ID         int64           `db:"id"`
	Season     int             `db:"season"`
	Week       int             `db:"week"`
	KickoffAt  time.Time       `db:"kickoff_at"`
	HomeTeamID string          `db:"home_team_id"`
	AwayTeamID string          `db:"away_team_id"`
	HomeLine   sql.NullFloat64 `db:"home_line"`
	HomeScore  sql.NullInt64   `db:"home_score"`
	AwayScore  sql.NullInt64   `db:"away_score"`
	HomeATS    sql.NullFloat64 `db:"home_ats"`
	AwayATS    sql.NullFloat64 `db:"away_ats"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:         m.ID,
		Season:     m.Season,
		Week:       m.Week,
		KickoffAt:  m.KickoffAt,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeLine:   nullFloat64ToPtr(m.HomeLine),
		HomeScore:  nullInt64ToIntPtr(m.HomeScore),
		AwayScore:  nullInt64ToIntPtr(m.AwayScore),
		HomeATS:    nullFloat64ToPtr(m.HomeATS),
		AwayATS:    nullFloat64ToPtr(m.AwayATS),
	}
}
