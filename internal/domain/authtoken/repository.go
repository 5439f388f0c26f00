package authtoken

import "context"

type Repository interface {
	Get(ctx context.Context, season int, playerID int64, week int) (Token, bool, error)
	// CreateIfAbsent stores item unless a token already exists for the same
	// player and week, and returns whichever token is stored.
	CreateIfAbsent(ctx context.Context, item Token) (Token, error)
}
