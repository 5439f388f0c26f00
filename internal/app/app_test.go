package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/config"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                   config.EnvDev,
		ServiceName:              "lock-of-the-week-api",
		HTTPAddr:                 "127.0.0.1:0",
		CORSAllowedOrigins:       []string{"*"},
		StorageDriver:            config.StorageMemory,
		CacheEnabled:             true,
		CacheTTL:                 time.Minute,
		LeagueTimezone:           "America/New_York",
		MailWorkers:              2,
		SchedulerEnabled:         true,
		SchedulerStandingsCron:   "0 10 * * 2",
		SchedulerLinesCron:       "0 10 * * 3",
		SchedulerKickoffInterval: 5 * time.Minute,
		InternalJobToken:         "job-token",
	}
}

func TestNew_MemoryStorageServesRoutes(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	for _, path := range []string{"/healthz", "/v1/standings"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: unexpected status %d", path, resp.StatusCode)
		}
	}

	resp, err := http.Post(srv.URL+"/v1/internal/jobs/recompute-standings", "application/json", nil)
	if err != nil {
		t.Fatalf("POST internal job: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected internal route to require the job token, got %d", resp.StatusCode)
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{name: "empty addr", mutate: func(cfg *config.Config) { cfg.HTTPAddr = "" }},
		{name: "unknown timezone", mutate: func(cfg *config.Config) { cfg.LeagueTimezone = "Mars/Olympus_Mons" }},
		{name: "bad cron", mutate: func(cfg *config.Config) { cfg.SchedulerLinesCron = "every wednesday" }},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := memoryConfig()
			tc.mutate(&cfg)
			if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestCloserStack_ClosesInReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string
	stack := &closerStack{}
	stack.push("postgres", func(context.Context) error {
		order = append(order, "postgres")
		return nil
	})
	stack.push("redis", func(context.Context) error {
		order = append(order, "redis")
		return errors.New("connection reset")
	})
	stack.push("kafka", func(context.Context) error {
		order = append(order, "kafka")
		return nil
	})

	err := stack.closeAll(context.Background(), logging.NewNop())
	if err == nil {
		t.Fatalf("expected redis close error to be reported")
	}
	want := []string{"kafka", "redis", "postgres"}
	if len(order) != len(want) {
		t.Fatalf("unexpected close order: %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected close order: %v", order)
		}
	}
	if err := stack.closeAll(context.Background(), logging.NewNop()); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
}
