package memory

import (
	"context"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/authtoken"
)

type AuthTokenRepository struct {
	store *Store
}

func NewAuthTokenRepository(store *Store) *AuthTokenRepository {
	return &AuthTokenRepository{store: store}
}

func (r *AuthTokenRepository) Get(_ context.Context, season int, playerID int64, week int) (authtoken.Token, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.tokens[weekKey{season: season, playerID: playerID, week: week}]
	return item, ok, nil
}

func (r *AuthTokenRepository) CreateIfAbsent(_ context.Context, item authtoken.Token) (authtoken.Token, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := weekKey{season: item.Season, playerID: item.PlayerID, week: item.Week}
	if existing, ok := r.store.tokens[key]; ok {
		return existing, nil
	}
	r.store.tokens[key] = item
	return item, nil
}
