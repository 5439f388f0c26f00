package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) GetByID(_ context.Context, season int, playerID int64) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.players[playerID]
	if !ok {
		return player.Player{}, false, nil
	}
	return r.store.withFlags(season, item), true, nil
}

func (r *PlayerRepository) GetByEmail(_ context.Context, email string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.players {
		if strings.EqualFold(item.Email, strings.TrimSpace(email)) {
			return item, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) (player.Player, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.players {
		if strings.EqualFold(existing.Email, item.Email) {
			return player.Player{}, fmt.Errorf("player email %s already exists", item.Email)
		}
	}
	r.store.nextPlayerID++
	item.ID = r.store.nextPlayerID
	item.Registered, item.Paid = false, false
	r.store.players[item.ID] = item
	return item, nil
}

func (r *PlayerRepository) ListRegistered(_ context.Context, season int) ([]player.Player, error) {
	return r.list(season, func(flags, _ seasonFlags, _ player.Player) bool {
		return flags.registered
	}), nil
}

func (r *PlayerRepository) ListPaid(_ context.Context, season int) ([]player.Player, error) {
	return r.list(season, func(flags, _ seasonFlags, _ player.Player) bool {
		return flags.registered && flags.paid
	}), nil
}

func (r *PlayerRepository) ListPastRegistered(_ context.Context, season int) ([]player.Player, error) {
	return r.list(season, func(_, previous seasonFlags, item player.Player) bool {
		return previous.registered || item.IsRookie
	}), nil
}

func (r *PlayerRepository) SetRegistration(_ context.Context, season int, playerID int64, registered bool) error {
	return r.update(season, playerID, func(flags *seasonFlags) {
		flags.registered = registered
		if !registered {
			flags.paid = false
		}
	})
}

func (r *PlayerRepository) SetPaid(_ context.Context, season int, playerID int64, paid bool) error {
	return r.update(season, playerID, func(flags *seasonFlags) {
		flags.paid = paid
	})
}

func (r *PlayerRepository) update(season int, playerID int64, apply func(*seasonFlags)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.players[playerID]; !ok {
		return fmt.Errorf("player %d not found", playerID)
	}
	key := seasonKey{season: season, playerID: playerID}
	flags := r.store.seasons[key]
	apply(&flags)
	r.store.seasons[key] = flags
	return nil
}

func (r *PlayerRepository) list(season int, keep func(current, previous seasonFlags, item player.Player) bool) []player.Player {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, item := range r.store.players {
		current := r.store.seasons[seasonKey{season: season, playerID: item.ID}]
		previous := r.store.seasons[seasonKey{season: season - 1, playerID: item.ID}]
		if keep(current, previous, item) {
			out = append(out, r.store.withFlags(season, item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !strings.EqualFold(out[i].LastName, out[j].LastName) {
			return strings.ToLower(out[i].LastName) < strings.ToLower(out[j].LastName)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
