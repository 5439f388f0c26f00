package team

import "context"

// Repository reads the static list of NFL franchises. Team ids are the
// uppercase abbreviations used on the board ("NYJ", "KC").
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
}
