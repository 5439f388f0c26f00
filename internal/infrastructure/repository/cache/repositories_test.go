package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/scoring"
	basecache "github.com/riskibarqy/lock-of-the-week/internal/platform/cache"
)

type countingGameRepo struct {
	games []game.Game
	calls int
}

func (r *countingGameRepo) ListByWeek(_ context.Context, season, week int) ([]game.Game, error) {
	r.calls++
	out := make([]game.Game, 0, len(r.games))
	for _, item := range r.games {
		if item.Season == season && item.Week == week {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *countingGameRepo) ListByTeamWeek(ctx context.Context, season, week int, _ string) ([]game.Game, error) {
	return r.ListByWeek(ctx, season, week)
}

func (r *countingGameRepo) ListWeeksBetween(context.Context, int, time.Time, time.Time) ([]int, error) {
	r.calls++
	return []int{6}, nil
}

func (r *countingGameRepo) ListScoredBySeason(ctx context.Context, season int) ([]game.Game, error) {
	r.calls++
	return nil, nil
}

type nopScoringRepo struct{}

func (nopScoringRepo) ApplyWeekResults(context.Context, scoring.WeekResults) error { return nil }

func TestGameRepository_CachesUntilScored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingGameRepo{games: []game.Game{
		{ID: 1, Season: 2025, Week: 6, HomeTeamID: "NYJ", AwayTeamID: "DEN"},
	}}
	store := basecache.NewStore(time.Minute)
	games := NewGameRepository(next, store)
	scores := NewScoringRepository(nopScoringRepo{}, store)

	first, err := games.ListByWeek(ctx, 2025, 6)
	if err != nil {
		t.Fatalf("ListByWeek error: %v", err)
	}
	first[0].HomeTeamID = "XXX"

	second, err := games.ListByWeek(ctx, 2025, 6)
	if err != nil {
		t.Fatalf("ListByWeek error: %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("expected cached read, got %d store calls", next.calls)
	}
	if second[0].HomeTeamID != "NYJ" {
		t.Fatalf("cached slice was mutated through caller copy: %+v", second[0])
	}

	if err := scores.ApplyWeekResults(ctx, scoring.WeekResults{Season: 2025, Week: 6}); err != nil {
		t.Fatalf("ApplyWeekResults error: %v", err)
	}
	if _, err := games.ListByWeek(ctx, 2025, 6); err != nil {
		t.Fatalf("ListByWeek error: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("expected reload after scoring, got %d store calls", next.calls)
	}
}
