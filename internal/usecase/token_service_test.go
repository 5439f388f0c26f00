package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/authtoken"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.tokens.Issue(ctx, env.jane.ID, 7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if len(first.Value) != 8 {
		t.Fatalf("unexpected token length: %q", first.Value)
	}
	if !first.ExpiresAt.Equal(env.sundayLate) {
		t.Fatalf("token must expire at the last kickoff, got %s", first.ExpiresAt)
	}

	second, err := env.tokens.Issue(ctx, env.jane.ID, 7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if second.Value != first.Value {
		t.Fatalf("expected stored token to be reused")
	}

	if err := env.tokens.Verify(ctx, env.jane.ID, 7, first.Value); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if err := env.tokens.Verify(ctx, env.jane.ID, 7, "wrongval"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong token, got %v", err)
	}
	if err := env.tokens.Verify(ctx, env.john.ID, 7, first.Value); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for another player, got %v", err)
	}

	env.clock.Set(env.sundayLate.Add(time.Minute))
	if err := env.tokens.Verify(ctx, env.jane.ID, 7, first.Value); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestTokenService_IssueWithoutGames(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if _, err := env.tokens.Issue(context.Background(), env.jane.ID, 9); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTokenService_IssueRegistration(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.tokens.IssueRegistration(ctx, env.alumn.ID)
	if err != nil {
		t.Fatalf("IssueRegistration error: %v", err)
	}
	if token.Week != authtoken.RegistrationWeek || !token.ExpiresAt.IsZero() {
		t.Fatalf("unexpected registration token: %+v", token)
	}
	again, err := env.tokens.IssueRegistration(ctx, env.alumn.ID)
	if err != nil || again.Value != token.Value {
		t.Fatalf("expected the stored token to be reused, got %+v err=%v", again, err)
	}
	if err := env.tokens.Verify(ctx, env.alumn.ID, authtoken.RegistrationWeek, token.Value); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if err := env.tokens.Verify(ctx, env.alumn.ID, 7, token.Value); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("registration token must not authorize picks, got %v", err)
	}

	final := time.Date(2026, time.February, 8, 18, 30, 0, 0, newYork)
	env.store.PutGame(game.Game{Season: 2025, Week: game.FinalWeek, KickoffAt: final, HomeTeamID: "KAN", AwayTeamID: "PHI", HomeLine: float(-1)})
	fresh, err := env.tokens.IssueRegistration(ctx, env.john.ID)
	if err != nil {
		t.Fatalf("IssueRegistration error: %v", err)
	}
	if !fresh.ExpiresAt.Equal(final) {
		t.Fatalf("expected expiry at the final kickoff, got %s", fresh.ExpiresAt)
	}
}
