package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/scoring"
)

func TestScoringRepository_ApplyWeekResultsIsAllOrNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	g := store.PutGame(game.Game{Season: 2025, Week: 1, HomeTeamID: "DEN", AwayTeamID: "KAN"})
	repo := NewScoringRepository(store)

	err := repo.ApplyWeekResults(ctx, scoring.WeekResults{
		Season: 2025,
		Week:   1,
		Games:  []game.ATSResult{{GameID: g.ID, HomeATS: 7, AwayATS: -7}},
		Picks:  []pick.ATSResult{{PickID: 99, PlayerID: 1, ATS: 7}},
	})
	if err == nil {
		t.Fatalf("expected error for unknown pick")
	}
	games, _ := NewGameRepository(store).ListByWeek(ctx, 2025, 1)
	if games[0].IsScored() {
		t.Fatalf("expected game to stay unscored after failed apply")
	}

	if err := repo.ApplyWeekResults(ctx, scoring.WeekResults{
		Season: 2025,
		Week:   1,
		Games:  []game.ATSResult{{GameID: g.ID, HomeATS: 7, AwayATS: -7}},
	}); err != nil {
		t.Fatalf("ApplyWeekResults error: %v", err)
	}
	games, _ = NewGameRepository(store).ListByWeek(ctx, 2025, 1)
	if ats, ok := games[0].ATSFor("KAN"); !ok || ats != -7 {
		t.Fatalf("unexpected away ats: %v ok=%t", ats, ok)
	}
}
