package memory

import (
	"context"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
)

type StandingRepository struct {
	store *Store
}

func NewStandingRepository(store *Store) *StandingRepository {
	return &StandingRepository{store: store}
}

func (r *StandingRepository) Upsert(_ context.Context, item standing.Standing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.standings[seasonKey{season: item.Season, playerID: item.PlayerID}] = item
	return nil
}

func (r *StandingRepository) ListBySeason(_ context.Context, season int) ([]standing.Standing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]standing.Standing, 0, len(r.store.standings))
	for key, item := range r.store.standings {
		if key.season != season {
			continue
		}
		if profile, ok := r.store.players[item.PlayerID]; ok {
			item.FirstName = profile.FirstName
			item.LastName = profile.LastName
			item.Titles = profile.Titles
			item.IsRookie = profile.IsRookie
		}
		out = append(out, item)
	}
	standing.Sort(out)
	return out, nil
}
