package memory

import (
	"context"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/bulletin"
)

type BulletinRepository struct {
	store *Store
}

func NewBulletinRepository(store *Store) *BulletinRepository {
	return &BulletinRepository{store: store}
}

func (r *BulletinRepository) GetStandingsNote(_ context.Context, season, week int) (string, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	note, ok := r.store.notes[[2]int{season, week}]
	return note, ok, nil
}

func (r *BulletinRepository) GetBroadcast(_ context.Context, id int64) (bulletin.Broadcast, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.broadcasts[id]
	return item, ok, nil
}
