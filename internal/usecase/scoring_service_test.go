package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/scoring"
	"github.com/riskibarqy/lock-of-the-week/internal/infrastructure/repository/memory"
	gamemock "github.com/riskibarqy/lock-of-the-week/internal/mocks/domain/game"
	scoringmock "github.com/riskibarqy/lock-of-the-week/internal/mocks/domain/scoring"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

func TestScoringService_ScoreWeek_WritesGameAndPickATS(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.lockedWeekSixPick(env.jane.ID, "NYJ")
	env.lockedWeekSixPick(env.john.ID, "KAN")

	got, err := env.scoring.ScoreWeek(ctx, 6)
	if err != nil {
		t.Fatalf("ScoreWeek error: %v", err)
	}
	if got.Games != 2 || got.Picks != 2 || got.Message != "Successfully updated ATS values for week 6" {
		t.Fatalf("unexpected result: %+v", got)
	}

	games, _ := memory.NewGameRepository(env.store).ListByWeek(ctx, 2025, 6)
	for _, item := range games {
		if !item.IsScored() {
			t.Fatalf("expected game %d to be scored", item.ID)
		}
		if *item.HomeATS+*item.AwayATS != 0 {
			t.Fatalf("ats must cancel out for game %d", item.ID)
		}
	}
	if ats, _ := games[0].ATSFor("DEN"); ats != -5 {
		t.Fatalf("unexpected DEN ats: %v", ats)
	}

	want := map[int64]float64{env.jane.ID: 5, env.john.ID: 10.5}
	picks, _ := memory.NewPickRepository(env.store).ListCurrentByWeek(ctx, 2025, 6)
	for _, item := range picks {
		if item.ATS == nil || *item.ATS != want[item.PlayerID] {
			t.Fatalf("unexpected pick ats for player %d: %v", item.PlayerID, item.ATS)
		}
	}
}

func TestScoringService_ScoreWeek_Guards(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	got, err := env.scoring.ScoreWeek(ctx, 0)
	if err != nil || got.Message != "No updates made for week 0" {
		t.Fatalf("unexpected week 0 result: %+v err=%v", got, err)
	}
	if _, err := env.scoring.ScoreWeek(ctx, 7); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected active week to be rejected, got %v", err)
	}
	if _, err := env.scoring.ScoreWeek(ctx, 23); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected out of range week to be rejected, got %v", err)
	}
}

func TestScoringService_ScoreWeek_MissingScoreWritesNothing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.lockedWeekSixPick(env.jane.ID, "DEN")
	pending := env.store.PutGame(game.Game{Season: 2025, Week: 6, KickoffAt: et(time.October, 13, 20, 15), HomeTeamID: "BUF", AwayTeamID: "ATL", HomeLine: float(-4), HomeScore: score(14)})

	_, err := env.scoring.ScoreWeek(ctx, 6)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
	if !strings.Contains(err.Error(), "ATL at BUF") {
		t.Fatalf("expected error to name the game %d, got %v", pending.ID, err)
	}

	games, _ := memory.NewGameRepository(env.store).ListByWeek(ctx, 2025, 6)
	for _, item := range games {
		if item.IsScored() {
			t.Fatalf("no game may be scored after a failure, game %d was", item.ID)
		}
	}
	picks, _ := memory.NewPickRepository(env.store).ListCurrentByWeek(ctx, 2025, 6)
	if picks[0].ATS != nil {
		t.Fatalf("no pick may be scored after a failure")
	}
}

func TestScoringService_ScoreWeek_PickWithoutGame(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.lockedWeekSixPick(env.jane.ID, "BUF")

	_, err := env.scoring.ScoreWeek(context.Background(), 6)
	if !errors.Is(err, ErrDataIntegrity) || !strings.Contains(err.Error(), "team=BUF") {
		t.Fatalf("expected integrity error naming the pick, got %v", err)
	}
}

func TestScoringService_ScoreWeek_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamemock.NewRepository(t)
	scoringRepo := scoringmock.NewRepository(t)
	store := memory.NewStore()

	calendar := NewCalendar(gameRepo, newYork)
	calendar.now = func() time.Time { return et(time.October, 15, 12, 0) }
	service := NewScoringService(gameRepo, memory.NewPickRepository(store), scoringRepo, calendar, nil, logging.NewNop())

	gameRepo.
		On("ListWeeksBetween", mock.Anything, 2025, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]int{7}, nil).
		Once()
	gameRepo.
		On("ListByWeek", mock.Anything, 2025, 3).
		Return([]game.Game{{ID: 11, Season: 2025, Week: 3, HomeTeamID: "MIA", AwayTeamID: "BUF", HomeLine: float(-3), HomeScore: score(20), AwayScore: score(10)}}, nil).
		Once()
	scoringRepo.
		On("ApplyWeekResults", mock.Anything, mock.MatchedBy(func(v scoring.WeekResults) bool {
			return v.Week == 3 && len(v.Games) == 1 && v.Games[0].HomeATS == 7 && v.Games[0].AwayATS == -7 && len(v.Picks) == 0
		})).
		Return(nil).
		Once()

	got, err := service.ScoreWeek(ctx, 3)
	if err != nil {
		t.Fatalf("ScoreWeek error: %v", err)
	}
	if got.Games != 1 {
		t.Fatalf("unexpected games count: %d", got.Games)
	}
}

func TestScoringService_ScoreWeek_StoreErrorUsingMockery(t *testing.T) {
	t.Parallel()

	gameRepo := gamemock.NewRepository(t)
	scoringRepo := scoringmock.NewRepository(t)
	calendar := NewCalendar(gameRepo, newYork)
	calendar.now = func() time.Time { return et(time.October, 15, 12, 0) }
	service := NewScoringService(gameRepo, memory.NewPickRepository(memory.NewStore()), scoringRepo, calendar, nil, logging.NewNop())

	storeErr := errors.New("connection reset")
	gameRepo.
		On("ListWeeksBetween", mock.Anything, 2025, mock.Anything, mock.Anything).
		Return(nil, storeErr).
		Once()

	if _, err := service.ScoreWeek(context.Background(), 3); !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
