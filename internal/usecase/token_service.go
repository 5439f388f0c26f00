package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/authtoken"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/id"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

// TokenService issues and checks the per player, per week link tokens.
type TokenService struct {
	tokenRepo authtoken.Repository
	board     *BoardService
	calendar  *Calendar
	generator id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewTokenService(tokenRepo authtoken.Repository, board *BoardService, calendar *Calendar, generator id.Generator, logger *logging.Logger) *TokenService {
	if generator == nil {
		generator = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TokenService{
		tokenRepo: tokenRepo,
		board:     board,
		calendar:  calendar,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// Issue returns the stored token for the player and week, creating one that
// expires at the week's last kickoff when none exists.
func (s *TokenService) Issue(ctx context.Context, playerID int64, week int) (authtoken.Token, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TokenService.Issue")
	defer span.End()

	season := s.calendar.Season()
	existing, exists, err := s.tokenRepo.Get(ctx, season, playerID, week)
	if err != nil {
		return authtoken.Token{}, fmt.Errorf("get token: %w", err)
	}
	if exists {
		return existing, nil
	}

	expiresAt, ok, err := s.board.LastKickoff(ctx, week)
	if err != nil {
		return authtoken.Token{}, err
	}
	if !ok {
		return authtoken.Token{}, fmt.Errorf("%w: no games scheduled for week %d", ErrInvalidInput, week)
	}
	return s.create(ctx, playerID, season, week, expiresAt)
}

// IssueRegistration returns the player's registration token for the season.
// It expires with the season's final kickoff, or never while that game is
// unscheduled.
func (s *TokenService) IssueRegistration(ctx context.Context, playerID int64) (authtoken.Token, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TokenService.IssueRegistration")
	defer span.End()

	season := s.calendar.Season()
	existing, exists, err := s.tokenRepo.Get(ctx, season, playerID, authtoken.RegistrationWeek)
	if err != nil {
		return authtoken.Token{}, fmt.Errorf("get registration token: %w", err)
	}
	if exists {
		return existing, nil
	}
	expiresAt, _, err := s.board.LastKickoff(ctx, game.FinalWeek)
	if err != nil {
		return authtoken.Token{}, err
	}
	return s.create(ctx, playerID, season, authtoken.RegistrationWeek, expiresAt)
}

func (s *TokenService) create(ctx context.Context, playerID int64, season, week int, expiresAt time.Time) (authtoken.Token, error) {
	value, err := s.generator.NewToken(authtoken.Length)
	if err != nil {
		return authtoken.Token{}, fmt.Errorf("generate token: %w", err)
	}
	stored, err := s.tokenRepo.CreateIfAbsent(ctx, authtoken.Token{
		PlayerID:  playerID,
		Season:    season,
		Week:      week,
		Value:     value,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return authtoken.Token{}, fmt.Errorf("store token: %w", err)
	}
	s.logger.DebugContext(ctx, "token issued", "player_id", playerID, "week", week)
	return stored, nil
}

// Verify rejects unknown, mismatched and expired tokens with ErrUnauthorized.
func (s *TokenService) Verify(ctx context.Context, playerID int64, week int, value string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TokenService.Verify")
	defer span.End()

	stored, exists, err := s.tokenRepo.Get(ctx, s.calendar.Season(), playerID, week)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	if !exists || !stored.Matches(value) {
		s.logger.WarnContext(ctx, "token rejected", "player_id", playerID, "week", week)
		return fmt.Errorf("%w: invalid token for player=%d week=%d", ErrUnauthorized, playerID, week)
	}
	if stored.ExpiredAt(s.now()) {
		return fmt.Errorf("%w: token for player=%d week=%d has expired", ErrUnauthorized, playerID, week)
	}
	return nil
}
