package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "lock-of-the-week-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.LeagueTimezone != "America/New_York" {
		t.Fatalf("unexpected timezone: %q", cfg.LeagueTimezone)
	}
	if cfg.MailRetries != 1 || cfg.MailRetryBackoff != 15*time.Second {
		t.Fatalf("unexpected mail retry policy: retries=%d backoff=%s", cfg.MailRetries, cfg.MailRetryBackoff)
	}
	if cfg.MailEnabled || cfg.RedisEnabled || cfg.KafkaEnabled || cfg.ArchiveEnabled {
		t.Fatalf("expected optional adapters to default to disabled")
	}
	if !cfg.SchedulerEnabled || cfg.SchedulerKickoffInterval != 5*time.Minute {
		t.Fatalf("unexpected scheduler defaults: enabled=%t interval=%s", cfg.SchedulerEnabled, cfg.SchedulerKickoffInterval)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger to be enabled in dev")
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "Memory")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageMemory {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})
}

func TestLoad_RequiredWhenEnabled(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "mail host",
			env:  map[string]string{"MAIL_ENABLED": "true", "LOTW_COMMISSIONER_EMAIL": "commish@example.com"},
		},
		{
			name: "mail sender",
			env:  map[string]string{"MAIL_ENABLED": "true", "MAIL_HOST": "smtp.example.com"},
		},
		{
			name: "kafka brokers",
			env:  map[string]string{"KAFKA_ENABLED": "true"},
		},
		{
			name: "archive bucket",
			env:  map[string]string{"ARCHIVE_ENABLED": "true"},
		},
		{
			name: "archive key pair",
			env:  map[string]string{"ARCHIVE_ACCESS_KEY_ID": "AKIA"},
		},
		{
			name: "uptrace dsn",
			env:  map[string]string{"UPTRACE_ENABLED": "true"},
		},
		{
			name: "pyroscope address",
			env:  map[string]string{"PYROSCOPE_ENABLED": "true"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %v", tc.env)
			}
		})
	}
}

func TestLoad_MailAndIntegrations(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("MAIL_ENABLED", "true")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("MAIL_RETRIES", "3")
	t.Setenv("MAIL_RETRY_BACKOFF", "2s")
	t.Setenv("MAIL_WORKERS", "8")
	t.Setenv("LOTW_COMMISSIONER_EMAIL", "commish@example.com")
	t.Setenv("LOTW_PUBLIC_BASE_URL", "https://lotw.example.com/")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ARCHIVE_ENABLED", "true")
	t.Setenv("ARCHIVE_BUCKET", "lotw-mail")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MailPort != 2525 || cfg.MailRetries != 3 || cfg.MailRetryBackoff != 2*time.Second || cfg.MailWorkers != 8 {
		t.Fatalf("unexpected mail config: %+v", cfg)
	}
	if cfg.PublicBaseURL != "https://lotw.example.com" {
		t.Fatalf("expected trailing slash to be trimmed, got %q", cfg.PublicBaseURL)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected kafka brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("unexpected redis db: %d", cfg.RedisDB)
	}
	if cfg.ArchiveBucket != "lotw-mail" || cfg.ArchiveRegion != "us-east-1" {
		t.Fatalf("unexpected archive config: bucket=%q region=%q", cfg.ArchiveBucket, cfg.ArchiveRegion)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "MAIL_RETRIES", value: "-1"},
		{key: "MAIL_WORKERS", value: "0"},
		{key: "MAIL_PORT", value: "smtp"},
		{key: "CACHE_TTL", value: "0s"},
		{key: "SCHEDULER_KICKOFF_INTERVAL", value: "soon"},
		{key: "REDIS_ENABLED", value: "maybe"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("prod allows explicit swagger", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true")
		}
	})
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "lotw-worker")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://pyroscope:4040")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "lotw-worker" {
		t.Fatalf("unexpected PyroscopeAppName: %q", cfg.PyroscopeAppName)
	}
}
