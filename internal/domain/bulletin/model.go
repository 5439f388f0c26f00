package bulletin

import "context"

// Broadcast is a commissioner email addressed to every paid player.
type Broadcast struct {
	ID      int64
	Subject string
	Body    string
}

type Repository interface {
	GetStandingsNote(ctx context.Context, season, week int) (string, bool, error)
	GetBroadcast(ctx context.Context, id int64) (Broadcast, bool, error)
}
