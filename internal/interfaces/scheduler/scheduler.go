package scheduler

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-co-op/gocron/v2"

	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

const (
	jobStandings = "weekly-standings"
	jobLines     = "lines-email"
	jobKickoff   = "kickoff-picks-check"
)

// Jobs is the part of usecase.JobService driven on a timer.
type Jobs interface {
	RunWeekly(ctx context.Context, input usecase.WeeklyJobInput) (usecase.WeeklyJobResult, error)
	SendCurrentLines(ctx context.Context, trigger string) (usecase.DeliveryReport, error)
	NotifyRecentKickoffs(ctx context.Context, window time.Duration, trigger string) (usecase.KickoffCheckResult, error)
}

type Config struct {
	StandingsCron   string
	LinesCron       string
	KickoffInterval time.Duration
	RunTimeout      time.Duration
	Location        *time.Location
}

// Scheduler runs the league's recurring jobs in the league timezone.
type Scheduler struct {
	sched  gocron.Scheduler
	jobs   Jobs
	cfg    Config
	logger *logging.Logger
}

func New(jobs Jobs, cfg Config, logger *logging.Logger) (*Scheduler, error) {
	if jobs == nil {
		return nil, crerr.New("scheduler jobs are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 10 * time.Minute
	}

	sched, err := gocron.NewScheduler(
		gocron.WithLocation(cfg.Location),
		gocron.WithLogger(logger),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "create scheduler")
	}
	s := &Scheduler{sched: sched, jobs: jobs, cfg: cfg, logger: logger}

	if err := s.register(); err != nil {
		_ = sched.Shutdown()
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) register() error {
	if cron := strings.TrimSpace(s.cfg.StandingsCron); cron != "" {
		if err := s.add(jobStandings, gocron.CronJob(cron, false), s.runStandings); err != nil {
			return err
		}
	}
	if cron := strings.TrimSpace(s.cfg.LinesCron); cron != "" {
		if err := s.add(jobLines, gocron.CronJob(cron, false), s.runLines); err != nil {
			return err
		}
	}
	if s.cfg.KickoffInterval > 0 {
		if err := s.add(jobKickoff, gocron.DurationJob(s.cfg.KickoffInterval), s.runKickoffCheck); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) add(name string, definition gocron.JobDefinition, fn func(ctx context.Context) error) error {
	_, err := s.sched.NewJob(
		definition,
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
			defer cancel()
			if err := fn(ctx); err != nil {
				s.logger.ErrorContext(ctx, "scheduled job failed", "job", name, "error", err)
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return crerr.Wrapf(err, "register job %s", name)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	for _, job := range s.sched.Jobs() {
		next, _ := job.NextRun()
		s.logger.Info("scheduled job registered", "job", job.Name(), "next_run", next)
	}
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// JobNames lists the registered jobs.
func (s *Scheduler) JobNames() []string {
	jobs := s.sched.Jobs()
	out := make([]string, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.Name())
	}
	return out
}

func (s *Scheduler) runStandings(ctx context.Context) error {
	result, err := s.jobs.RunWeekly(ctx, usecase.WeeklyJobInput{Trigger: usecase.TriggerSchedule})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "weekly standings job done", "dispatch_id", result.DispatchID, "week", result.Week)
	return nil
}

func (s *Scheduler) runLines(ctx context.Context) error {
	report, err := s.jobs.SendCurrentLines(ctx, usecase.TriggerSchedule)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "lines email job done", "week", report.Week, "sent", report.Sent, "failed", report.Failed)
	return nil
}

func (s *Scheduler) runKickoffCheck(ctx context.Context) error {
	result, err := s.jobs.NotifyRecentKickoffs(ctx, s.cfg.KickoffInterval, usecase.TriggerSchedule)
	if err != nil {
		return err
	}
	if len(result.Kickoffs) > 0 {
		s.logger.InfoContext(ctx, "kickoff picks emailed", "week", result.Week, "kickoffs", len(result.Kickoffs))
	}
	return nil
}
