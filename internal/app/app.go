package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/config"
	"github.com/riskibarqy/lock-of-the-week/internal/interfaces/httpapi"
	"github.com/riskibarqy/lock-of-the-week/internal/interfaces/scheduler"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/mailtemplate"
	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App owns the HTTP server, the scheduler and every resource they use.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	server    *http.Server
	scheduler *scheduler.Scheduler
	closers   *closerStack
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	location, err := usecase.LoadLeagueLocation(cfg.LeagueTimezone)
	if err != nil {
		return nil, err
	}

	closers := &closerStack{}
	a := &App{cfg: cfg, logger: logger, closers: closers}
	fail := func(err error) (*App, error) {
		_ = closers.closeAll(context.Background(), logger)
		return nil, err
	}

	repos, err := buildRepositories(ctx, cfg, logger, closers)
	if err != nil {
		return fail(err)
	}
	outbound, err := buildAdapters(ctx, cfg, logger, closers)
	if err != nil {
		return fail(err)
	}
	renderer, err := mailtemplate.New()
	if err != nil {
		return fail(err)
	}

	calendar := usecase.NewCalendar(repos.games, location)
	board := usecase.NewBoardService(repos.games, repos.teams, calendar)
	standings := usecase.NewStandingsService(repos.players, repos.picks, repos.standings, calendar, outbound.events, logger)
	tokens := usecase.NewTokenService(repos.tokens, board, calendar, nil, logger)
	notifications := usecase.NewNotificationService(
		repos.players,
		repos.picks,
		repos.bulletins,
		board,
		standings,
		tokens,
		calendar,
		renderer,
		outbound.mailer,
		outbound.archiver,
		usecase.NotificationConfig{
			CommissionerEmail: cfg.CommissionerEmail,
			CommissionerName:  cfg.CommissionerName,
			PublicBaseURL:     cfg.PublicBaseURL,
			Workers:           cfg.MailWorkers,
		},
		logger,
	)
	liveBoard := usecase.NewBoardService(repos.liveGames, repos.teams, calendar)
	picks := usecase.NewPickService(repos.picks, repos.players, repos.teams, liveBoard, calendar, notifications, outbound.events, logger)
	notifications.AttachPickService(picks)
	scoring := usecase.NewScoringService(repos.liveGames, repos.picks, repos.scoring, calendar, outbound.events, logger)
	registration := usecase.NewRegistrationService(repos.players, calendar, logger)
	analytics := usecase.NewAnalyticsService(repos.games, repos.picks, repos.players, board, standings, notifications, calendar, renderer, logger)
	jobs := usecase.NewJobService(calendar, board, scoring, standings, notifications, repos.dispatches, logger)

	handler := httpapi.NewHandler(httpapi.Services{
		Calendar:      calendar,
		Board:         board,
		Picks:         picks,
		Tokens:        tokens,
		Scoring:       scoring,
		Standings:     standings,
		Registration:  registration,
		Notifications: notifications,
		Analytics:     analytics,
		Jobs:          jobs,
	}, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})
	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.SchedulerEnabled {
		a.scheduler, err = scheduler.New(jobs, scheduler.Config{
			StandingsCron:   cfg.SchedulerStandingsCron,
			LinesCron:       cfg.SchedulerLinesCron,
			KickoffInterval: cfg.SchedulerKickoffInterval,
			Location:        location,
		}, logger.Named("scheduler"))
		if err != nil {
			return fail(err)
		}
	}

	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP and runs scheduled jobs until ctx is cancelled, then
// drains both and releases resources.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr, "storage", a.cfg.StorageDriver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(runErr, a.Shutdown(shutdownCtx))
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("scheduler shutdown: %w", err))
		}
	}
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.closers.closeAll(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}
	a.logger.Info("app stopped")
	return errors.Join(errs...)
}
