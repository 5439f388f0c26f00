package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/notification"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

var newYork = mustLoadLocation(DefaultLeagueTimezone)

func et(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2025, month, day, hour, minute, 0, 0, newYork)
}

func float(v float64) *float64 { return &v }
func score(v int) *int         { return &v }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingMailer struct {
	mu       sync.Mutex
	messages []notification.Email
	err      error
}

func (m *recordingMailer) Send(_ context.Context, msg notification.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *recordingMailer) Sent() []notification.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification.Email(nil), m.messages...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, item := range p.events {
		out = append(out, item.Type)
	}
	return out
}

// testEnv is a 2025 season in week 7: week 6 is final, week 7 kicks off
// Thursday 10/16.
type testEnv struct {
	store         *memory.Store
	clock         *fakeClock
	mailer        *recordingMailer
	events        *recordingPublisher
	calendar      *Calendar
	board         *BoardService
	picks         *PickService
	scoring       *ScoringService
	standings     *StandingsService
	tokens        *TokenService
	registration  *RegistrationService
	notifications *NotificationService
	analytics     *AnalyticsService
	jobs          *JobService

	jane  player.Player
	john  player.Player
	alumn player.Player

	weekSixDEN game.Game
	weekSixKAN game.Game
	thursday   time.Time
	sundayLate time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := memory.NewSeededStore()
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	env := &testEnv{
		store:      store,
		clock:      &fakeClock{now: et(time.October, 15, 12, 0)},
		mailer:     &recordingMailer{},
		events:     &recordingPublisher{},
		thursday:   et(time.October, 16, 20, 15),
		sundayLate: et(time.October, 19, 16, 25),
	}

	env.weekSixDEN = store.PutGame(game.Game{Season: 2025, Week: 6, KickoffAt: et(time.October, 12, 13, 0), HomeTeamID: "DEN", AwayTeamID: "NYJ", HomeLine: float(-7), HomeScore: score(13), AwayScore: score(11)})
	env.weekSixKAN = store.PutGame(game.Game{Season: 2025, Week: 6, KickoffAt: et(time.October, 12, 20, 20), HomeTeamID: "KAN", AwayTeamID: "DET", HomeLine: float(-2.5), HomeScore: score(30), AwayScore: score(17)})
	store.PutGame(game.Game{Season: 2025, Week: 7, KickoffAt: env.thursday, HomeTeamID: "PIT", AwayTeamID: "CIN"})
	store.PutGame(game.Game{Season: 2025, Week: 7, KickoffAt: et(time.October, 19, 16, 5), HomeTeamID: "DEN", AwayTeamID: "NYG", HomeLine: float(-7.5)})
	store.PutGame(game.Game{Season: 2025, Week: 7, KickoffAt: env.sundayLate, HomeTeamID: "LVR", AwayTeamID: "KAN", HomeLine: float(12)})

	env.jane = store.PutPlayer(2025, player.Player{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Titles: 1, Registered: true, Paid: true})
	env.john = store.PutPlayer(2025, player.Player{Email: "john@example.com", FirstName: "John", LastName: "Smith", IsRookie: true, Registered: true, Paid: true})
	env.alumn = store.PutPlayer(2024, player.Player{Email: "alum@example.com", FirstName: "Al", LastName: "Umni", Registered: true, Paid: true})

	logger := logging.NewNop()
	env.calendar = NewCalendar(memory.NewGameRepository(store), newYork)
	env.calendar.now = env.clock.Now
	env.board = NewBoardService(memory.NewGameRepository(store), memory.NewTeamRepository(store), env.calendar)
	env.tokens = NewTokenService(memory.NewAuthTokenRepository(store), env.board, env.calendar, nil, logger)
	env.tokens.now = env.clock.Now
	env.scoring = NewScoringService(memory.NewGameRepository(store), memory.NewPickRepository(store), memory.NewScoringRepository(store), env.calendar, env.events, logger)
	env.scoring.now = env.clock.Now
	env.standings = NewStandingsService(memory.NewPlayerRepository(store), memory.NewPickRepository(store), memory.NewStandingRepository(store), env.calendar, env.events, logger)
	env.standings.now = env.clock.Now
	env.registration = NewRegistrationService(memory.NewPlayerRepository(store), env.calendar, logger)
	env.notifications = NewNotificationService(
		memory.NewPlayerRepository(store),
		memory.NewPickRepository(store),
		memory.NewBulletinRepository(store),
		env.board,
		env.standings,
		env.tokens,
		env.calendar,
		nil,
		env.mailer,
		nil,
		NotificationConfig{CommissionerEmail: "commish@example.com", CommissionerName: "The Commish", PublicBaseURL: "https://lotw.example.com/", Workers: 2},
		logger,
	)
	env.notifications.now = env.clock.Now
	env.picks = NewPickService(
		memory.NewPickRepository(store),
		memory.NewPlayerRepository(store),
		memory.NewTeamRepository(store),
		env.board,
		env.calendar,
		env.notifications,
		env.events,
		logger,
	)
	env.picks.now = env.clock.Now
	env.notifications.AttachPickService(env.picks)
	env.analytics = NewAnalyticsService(
		memory.NewGameRepository(store),
		memory.NewPickRepository(store),
		memory.NewPlayerRepository(store),
		env.board,
		env.standings,
		env.notifications,
		env.calendar,
		nil,
		logger,
	)
	env.analytics.now = env.clock.Now
	env.jobs = NewJobService(env.calendar, env.board, env.scoring, env.standings, env.notifications, memory.NewJobDispatchRepository(store), logger)
	env.jobs.now = env.clock.Now
	return env
}

func (e *testEnv) submit(t *testing.T, playerID int64, week int, teamID string) PickOutcome {
	t.Helper()
	out, err := e.picks.Submit(context.Background(), SubmitPickInput{PlayerID: playerID, Week: week, TeamID: teamID})
	if err != nil {
		t.Fatalf("Submit(%d, %d, %s) error: %v", playerID, week, teamID, err)
	}
	return out
}

// lockedWeekSixPick stores a locked week 6 pick for the player.
func (e *testEnv) lockedWeekSixPick(playerID int64, teamID string) {
	kickoff := e.weekSixDEN.KickoffAt
	if teamID == "KAN" || teamID == "DET" {
		kickoff = e.weekSixKAN.KickoffAt
	}
	e.store.PutPick(game6Pick(playerID, teamID, kickoff))
}

func game6Pick(playerID int64, teamID string, kickoff time.Time) pick.Pick {
	return pick.Pick{PlayerID: playerID, Season: 2025, Week: 6, TeamID: teamID, SubmittedAt: kickoff.Add(-24 * time.Hour), LockInAt: &kickoff}
}
