package postgres

import (
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
)

type playerTableModel struct {
	ID         int64     `db:"id"`
	Email      string    `db:"email"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Titles     int       `db:"titles"`
	IsRookie   bool      `db:"is_rookie"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	Registered bool      `db:"registered"`
	Paid       bool      `db:"paid"`
}

type playerInsertModel struct {
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Titles    int    `db:"titles"`
	IsRookie  bool   `db:"is_rookie"`
}

type playerSeasonInsertModel struct {
	PlayerID   int64 `db:"player_id"`
	Season     int   `db:"season"`
	Registered bool  `db:"registered"`
	Paid       bool  `db:"paid"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:         m.ID,
		Email:      m.Email,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Titles:     m.Titles,
		IsRookie:   m.IsRookie,
		Registered: m.Registered,
		Paid:       m.Paid,
	}
}
