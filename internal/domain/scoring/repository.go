package scoring

import "context"

type Repository interface {
	// ApplyWeekResults persists game and pick ATS values atomically.
	ApplyWeekResults(ctx context.Context, results WeekResults) error
}
