package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/scoring"
)

type ScoringRepository struct {
	store *Store
}

func NewScoringRepository(store *Store) *ScoringRepository {
	return &ScoringRepository{store: store}
}

// ApplyWeekResults validates every target row before writing any of them.
func (r *ScoringRepository) ApplyWeekResults(_ context.Context, results scoring.WeekResults) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	pickIndex := make(map[int64]int, len(r.store.picks))
	for idx, item := range r.store.picks {
		pickIndex[item.ID] = idx
	}
	for _, row := range results.Games {
		if _, ok := r.store.games[row.GameID]; !ok {
			return fmt.Errorf("game %d not found", row.GameID)
		}
	}
	for _, row := range results.Picks {
		if _, ok := pickIndex[row.PickID]; !ok {
			return fmt.Errorf("pick %d not found", row.PickID)
		}
	}

	for _, row := range results.Games {
		item := r.store.games[row.GameID]
		homeATS, awayATS := row.HomeATS, row.AwayATS
		item.HomeATS = &homeATS
		item.AwayATS = &awayATS
		r.store.games[row.GameID] = item
	}
	for _, row := range results.Picks {
		ats := row.ATS
		r.store.picks[pickIndex[row.PickID]].ATS = &ats
	}
	return nil
}
