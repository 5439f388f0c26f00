package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

// Answers carried by the registration invite links.
const (
	RegistrationYes = "yes"
	RegistrationNo  = "no"
)

type AddPlayerInput struct {
	Email     string
	FirstName string
	LastName  string
	Titles    int
	IsRookie  bool
}

// RegistrationService manages pool membership for the current season.
type RegistrationService struct {
	playerRepo player.Repository
	calendar   *Calendar
	logger     *logging.Logger
}

func NewRegistrationService(playerRepo player.Repository, calendar *Calendar, logger *logging.Logger) *RegistrationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistrationService{
		playerRepo: playerRepo,
		calendar:   calendar,
		logger:     logger,
	}
}

func (s *RegistrationService) AddPlayer(ctx context.Context, input AddPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.AddPlayer")
	defer span.End()

	item := player.Player{
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName: s.normalizeName(input.FirstName),
		LastName:  s.normalizeName(input.LastName),
		Titles:    input.Titles,
		IsRookie:  input.IsRookie,
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, exists, err := s.playerRepo.GetByEmail(ctx, item.Email)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by email: %w", err)
	}
	if exists {
		return player.Player{}, fmt.Errorf("%w: player with email %s already exists", ErrInvalidInput, item.Email)
	}

	created, err := s.playerRepo.Create(ctx, item)
	if err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	s.logger.InfoContext(ctx, "player added", "player_id", created.ID, "rookie", created.IsRookie)
	return created, nil
}

func (s *RegistrationService) SetRegistration(ctx context.Context, playerID int64, registered bool) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.SetRegistration")
	defer span.End()

	season := s.calendar.Season()
	if _, err := s.mustGet(ctx, season, playerID); err != nil {
		return player.Player{}, err
	}
	if err := s.playerRepo.SetRegistration(ctx, season, playerID, registered); err != nil {
		return player.Player{}, fmt.Errorf("set registration player=%d: %w", playerID, err)
	}
	s.logger.InfoContext(ctx, "player registration updated", "player_id", playerID, "season", season, "registered", registered)
	return s.mustGet(ctx, season, playerID)
}

// Respond applies a player's answer to the registration invite.
func (s *RegistrationService) Respond(ctx context.Context, playerID int64, answer string) (player.Player, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case RegistrationYes:
		return s.SetRegistration(ctx, playerID, true)
	case RegistrationNo:
		return s.SetRegistration(ctx, playerID, false)
	default:
		return player.Player{}, fmt.Errorf("%w: answer must be %q or %q", ErrInvalidInput, RegistrationYes, RegistrationNo)
	}
}

// SetPaid flags payment. Only registered players can be marked paid.
func (s *RegistrationService) SetPaid(ctx context.Context, playerID int64, paid bool) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.SetPaid")
	defer span.End()

	season := s.calendar.Season()
	current, err := s.mustGet(ctx, season, playerID)
	if err != nil {
		return player.Player{}, err
	}
	if paid && !current.Registered {
		return player.Player{}, fmt.Errorf("%w: player=%d is not registered for season %d", ErrInvalidInput, playerID, season)
	}
	if err := s.playerRepo.SetPaid(ctx, season, playerID, paid); err != nil {
		return player.Player{}, fmt.Errorf("set paid player=%d: %w", playerID, err)
	}
	s.logger.InfoContext(ctx, "player payment updated", "player_id", playerID, "season", season, "paid", paid)
	return s.mustGet(ctx, season, playerID)
}

func (s *RegistrationService) ListRegistered(ctx context.Context) ([]player.Player, error) {
	items, err := s.playerRepo.ListRegistered(ctx, s.calendar.Season())
	if err != nil {
		return nil, fmt.Errorf("list registered players: %w", err)
	}
	return items, nil
}

func (s *RegistrationService) ListPaid(ctx context.Context) ([]player.Player, error) {
	items, err := s.playerRepo.ListPaid(ctx, s.calendar.Season())
	if err != nil {
		return nil, fmt.Errorf("list paid players: %w", err)
	}
	return items, nil
}

func (s *RegistrationService) ListPastRegistered(ctx context.Context) ([]player.Player, error) {
	items, err := s.playerRepo.ListPastRegistered(ctx, s.calendar.Season())
	if err != nil {
		return nil, fmt.Errorf("list past registered players: %w", err)
	}
	return items, nil
}

func (s *RegistrationService) mustGet(ctx context.Context, season int, playerID int64) (player.Player, error) {
	item, exists, err := s.playerRepo.GetByID(ctx, season, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}
	return item, nil
}

// Casers carry state, so each call gets its own.
func (s *RegistrationService) normalizeName(value string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(value), " "))
}
