package scheduler

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

type stubJobs struct {
	weeklyInputs []usecase.WeeklyJobInput
	lineTriggers []string
	windows      []time.Duration
	err          error
}

func (s *stubJobs) RunWeekly(_ context.Context, input usecase.WeeklyJobInput) (usecase.WeeklyJobResult, error) {
	s.weeklyInputs = append(s.weeklyInputs, input)
	return usecase.WeeklyJobResult{Week: 6}, s.err
}

func (s *stubJobs) SendCurrentLines(_ context.Context, trigger string) (usecase.DeliveryReport, error) {
	s.lineTriggers = append(s.lineTriggers, trigger)
	return usecase.DeliveryReport{Week: 7}, s.err
}

func (s *stubJobs) NotifyRecentKickoffs(_ context.Context, window time.Duration, _ string) (usecase.KickoffCheckResult, error) {
	s.windows = append(s.windows, window)
	return usecase.KickoffCheckResult{Week: 7}, s.err
}

func TestNew_RegistersConfiguredJobs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "all jobs",
			cfg:  Config{StandingsCron: "0 6 * * 2", LinesCron: "0 9 * * 3", KickoffInterval: 5 * time.Minute},
			want: []string{jobKickoff, jobLines, jobStandings},
		},
		{
			name: "kickoff check only",
			cfg:  Config{KickoffInterval: time.Minute},
			want: []string{jobKickoff},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := New(&stubJobs{}, tc.cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("New error: %v", err)
			}
			defer func() { _ = s.Shutdown() }()

			got := s.JobNames()
			sort.Strings(got)
			if len(got) != len(tc.want) {
				t.Fatalf("JobNames() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("JobNames() = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestNew_RejectsBadCron(t *testing.T) {
	t.Parallel()

	if _, err := New(&stubJobs{}, Config{StandingsCron: "every tuesday"}, logging.NewNop()); err == nil {
		t.Fatalf("expected invalid cron expression to fail")
	}
}

func TestTasks_UseScheduleTrigger(t *testing.T) {
	t.Parallel()

	jobs := &stubJobs{}
	s := &Scheduler{jobs: jobs, cfg: Config{KickoffInterval: 5 * time.Minute}, logger: logging.NewNop()}
	ctx := context.Background()

	if err := s.runStandings(ctx); err != nil {
		t.Fatalf("runStandings error: %v", err)
	}
	if err := s.runLines(ctx); err != nil {
		t.Fatalf("runLines error: %v", err)
	}
	if err := s.runKickoffCheck(ctx); err != nil {
		t.Fatalf("runKickoffCheck error: %v", err)
	}

	if len(jobs.weeklyInputs) != 1 || jobs.weeklyInputs[0].Trigger != usecase.TriggerSchedule || jobs.weeklyInputs[0].Week != nil {
		t.Fatalf("unexpected weekly input: %+v", jobs.weeklyInputs)
	}
	if len(jobs.lineTriggers) != 1 || jobs.lineTriggers[0] != usecase.TriggerSchedule {
		t.Fatalf("unexpected lines trigger: %v", jobs.lineTriggers)
	}
	if len(jobs.windows) != 1 || jobs.windows[0] != 5*time.Minute {
		t.Fatalf("kickoff window should match the check interval: %v", jobs.windows)
	}
}

func TestTasks_PropagateErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("smtp down")
	s := &Scheduler{jobs: &stubJobs{err: wantErr}, logger: logging.NewNop()}
	if err := s.runStandings(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected job error, got %v", err)
	}
}
