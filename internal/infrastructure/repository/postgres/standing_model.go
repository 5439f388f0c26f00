package postgres

import (
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
)

type standingRowModel struct {
	PlayerID      int64     `db:"player_id"`
	Season        int       `db:"season"`
	ThroughWeek   int       `db:"through_week"`
	Wins          int       `db:"wins"`
	Losses        int       `db:"losses"`
	WinPercentage float64   `db:"win_percentage"`
	ATSPoints     float64   `db:"ats_points"`
	UpdatedAt     time.Time `db:"updated_at"`
	FirstName     string    `db:"first_name"`
	LastName      string    `db:"last_name"`
	Titles        int       `db:"titles"`
	IsRookie      bool      `db:"is_rookie"`
}

type standingInsertModel struct {
	PlayerID      int64   `db:"player_id"`
	Season        int     `db:"season"`
	ThroughWeek   int     `db:"through_week"`
	Wins          int     `db:"wins"`
	Losses        int     `db:"losses"`
	WinPercentage float64 `db:"win_percentage"`
	ATSPoints     float64 `db:"ats_points"`
}

func (m standingRowModel) toDomain() standing.Standing {
	return standing.Standing{
		PlayerID:      m.PlayerID,
		Season:        m.Season,
		ThroughWeek:   m.ThroughWeek,
		Wins:          m.Wins,
		Losses:        m.Losses,
		WinPercentage: m.WinPercentage,
		ATSPoints:     m.ATSPoints,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Titles:        m.Titles,
		IsRookie:      m.IsRookie,
	}
}
