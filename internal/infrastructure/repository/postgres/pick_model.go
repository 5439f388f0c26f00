package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
)

type pickTableModel struct {
	ID          int64           `db:"id"`
	PlayerID    int64           `db:"player_id"`
	Season      int             `db:"season"`
	Week        int             `db:"week"`
	TeamID      string          `db:"team_id"`
	SubmittedAt time.Time       `db:"submitted_at"`
	LockInAt    sql.NullTime    `db:"lock_in_at"`
	ATS         sql.NullFloat64 `db:"ats"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type pickInsertModel struct {
	PlayerID    int64      `db:"player_id"`
	Season      int        `db:"season"`
	Week        int        `db:"week"`
	TeamID      string     `db:"team_id"`
	SubmittedAt time.Time  `db:"submitted_at"`
	LockInAt    *time.Time `db:"lock_in_at"`
}

func (m pickTableModel) toDomain() pick.Pick {
	return pick.Pick{
		ID:          m.ID,
		PlayerID:    m.PlayerID,
		Season:      m.Season,
		Week:        m.Week,
		TeamID:      m.TeamID,
		SubmittedAt: m.SubmittedAt,
		LockInAt:    nullTimeToTimePtr(m.LockInAt),
		ATS:         nullFloat64ToPtr(m.ATS),
	}
}
