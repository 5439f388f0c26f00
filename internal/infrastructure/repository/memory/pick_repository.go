package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
)

type PickRepository struct {
	store *Store
}

func NewPickRepository(store *Store) *PickRepository {
	return &PickRepository{store: store}
}

func (r *PickRepository) GetCurrent(_ context.Context, season int, playerID int64, week int) (pick.Pick, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	idx := r.currentIndex(season, playerID, week)
	if idx < 0 {
		return pick.Pick{}, false, nil
	}
	return clonePick(r.store.picks[idx]), true, nil
}

// Replace supersedes previous and inserts next under one lock. The swap is
// refused when the current row no longer matches previous.
func (r *PickRepository) Replace(_ context.Context, previous *pick.Pick, next pick.Pick) (pick.Pick, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	idx := r.currentIndex(next.Season, next.PlayerID, next.Week)
	switch {
	case previous == nil && idx >= 0:
		return pick.Pick{}, pick.ErrConcurrentUpdate
	case previous != nil && (idx < 0 || r.store.picks[idx].ID != previous.ID):
		return pick.Pick{}, pick.ErrConcurrentUpdate
	}
	if idx >= 0 {
		r.store.picks[idx].LockInAt = nil
	}

	r.store.nextPickID++
	next.ID = r.store.nextPickID
	next.ATS = nil
	next = clonePick(next)
	r.store.picks = append(r.store.picks, next)
	return clonePick(next), nil
}

func (r *PickRepository) ListCurrentByWeek(_ context.Context, season, week int) ([]pick.Pick, error) {
	return r.filter(func(item pick.Pick) bool {
		return item.IsCurrent() && item.Season == season && item.Week == week
	}), nil
}

func (r *PickRepository) ListCurrentByPlayer(_ context.Context, season int, playerID int64, throughWeek int) ([]pick.Pick, error) {
	return r.filter(func(item pick.Pick) bool {
		return item.IsCurrent() && item.Season == season && item.PlayerID == playerID && item.Week <= throughWeek
	}), nil
}

func (r *PickRepository) ListByLockIn(_ context.Context, season, week int, lockInAt time.Time) ([]pick.Pick, error) {
	return r.filter(func(item pick.Pick) bool {
		return item.IsCurrent() && item.Season == season && item.Week == week && item.LockInAt.Equal(lockInAt)
	}), nil
}

func (r *PickRepository) ListLockedSince(_ context.Context, fromSeason int, lockedBy time.Time) ([]pick.Pick, error) {
	out := r.filter(func(item pick.Pick) bool {
		return item.Season >= fromSeason && item.IsLockedAt(lockedBy)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out, nil
}

func (r *PickRepository) currentIndex(season int, playerID int64, week int) int {
	for idx, item := range r.store.picks {
		if item.IsCurrent() && item.Season == season && item.PlayerID == playerID && item.Week == week {
			return idx
		}
	}
	return -1
}

func (r *PickRepository) filter(keep func(pick.Pick) bool) []pick.Pick {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, item := range r.store.picks {
		if keep(item) {
			out = append(out, clonePick(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
