package jobscheduler

import "context"

// Repository stores one row per dispatch; later events for the same
// DispatchID overwrite the earlier state.
type Repository interface {
	UpsertEvent(ctx context.Context, event DispatchEvent) error
	// ListRecent returns the latest dispatches, newest first.
	ListRecent(ctx context.Context, limit int) ([]DispatchEvent, error)
}
