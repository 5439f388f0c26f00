package postgres

import "time"

type teamTableModel struct {
	ID        string    `db:"id"`
	City      string    `db:"city"`
	Nickname  string    `db:"nickname"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
