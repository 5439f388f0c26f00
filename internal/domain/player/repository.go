package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, season int, playerID int64) (Player, bool, error)
	GetByEmail(ctx context.Context, email string) (Player, bool, error)
	Create(ctx context.Context, item Player) (Player, error)
	ListRegistered(ctx context.Context, season int) ([]Player, error)
	ListPaid(ctx context.Context, season int) ([]Player, error)
	// ListPastRegistered returns players registered the season before or
	// flagged as rookies.
	ListPastRegistered(ctx context.Context, season int) ([]Player, error)
	SetRegistration(ctx context.Context, season int, playerID int64, registered bool) error
	SetPaid(ctx context.Context, season int, playerID int64, paid bool) error
}
