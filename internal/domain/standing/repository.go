package standing

import "context"

// Repository describes standings persistence needs from use cases.
type Repository interface {
	// Upsert replaces the player's row for the season in one transaction.
	// Rows are keyed by player and season; a later cutoff overwrites the
	// earlier one instead of adding a row.
	Upsert(ctx context.Context, item Standing) error
	// ListBySeason returns rows in display order.
	ListBySeason(ctx context.Context, season int) ([]Standing, error)
}
