package pick

import (
	"context"
	"time"
)

// Repository describes pick persistence needs from use cases.
type Repository interface {
	GetCurrent(ctx context.Context, season int, playerID int64, week int) (Pick, bool, error)
	// Replace records next as the current pick and clears the lock-in of
	// previous in the same transaction.
	Replace(ctx context.Context, previous *Pick, next Pick) (Pick, error)
	ListCurrentByWeek(ctx context.Context, season, week int) ([]Pick, error)
	ListCurrentByPlayer(ctx context.Context, season int, playerID int64, throughWeek int) ([]Pick, error)
	ListByLockIn(ctx context.Context, season, week int, lockInAt time.Time) ([]Pick, error)
	// ListLockedSince returns every player's current picks from fromSeason on
	// whose lock-in is at or before lockedBy.
	ListLockedSince(ctx context.Context, fromSeason int, lockedBy time.Time) ([]Pick, error)
}
