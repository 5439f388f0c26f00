package app

import (
	"context"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/config"
	"github.com/riskibarqy/lock-of-the-week/internal/infrastructure/archive"
	"github.com/riskibarqy/lock-of-the-week/internal/infrastructure/events"
	"github.com/riskibarqy/lock-of-the-week/internal/infrastructure/mail"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/resilience"
	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

type adapters struct {
	mailer   usecase.Mailer
	events   usecase.EventPublisher
	archiver usecase.Archiver
}

// buildAdapters returns the outbound adapters, substituting no-ops for the
// ones switched off in config.
func buildAdapters(ctx context.Context, cfg config.Config, logger *logging.Logger, closers *closerStack) (adapters, error) {
	out := adapters{
		mailer:   usecase.NewNoopMailer(),
		events:   usecase.NewNoopEventPublisher(),
		archiver: usecase.NewNoopArchiver(),
	}

	if cfg.MailEnabled {
		out.mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			Retry: resilience.RetryPolicy{
				Retries: cfg.MailRetries,
				Backoff: cfg.MailRetryBackoff,
			},
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.MailCircuitEnabled,
				FailureThreshold: cfg.MailCircuitFailureCount,
				OpenTimeout:      cfg.MailCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.MailCircuitHalfOpenMaxReq,
			},
		}, logger.Named("mail"))
	} else {
		logger.Info("mail disabled, emails are rendered but not sent")
	}

	if cfg.KafkaEnabled {
		publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			ClientID: cfg.ServiceName,
			Timeout:  5 * time.Second,
		}, logger.Named("events"))
		if err != nil {
			return adapters{}, err
		}
		closers.push("kafka", func(context.Context) error { return publisher.Close() })
		out.events = publisher
	}

	if cfg.ArchiveEnabled {
		archiver, err := archive.NewS3Archiver(ctx, archive.S3Config{
			Bucket:          cfg.ArchiveBucket,
			Region:          cfg.ArchiveRegion,
			Endpoint:        cfg.ArchiveEndpoint,
			Prefix:          cfg.ArchivePrefix,
			AccessKeyID:     cfg.ArchiveAccessKeyID,
			SecretAccessKey: cfg.ArchiveSecretAccessKey,
		}, logger.Named("archive"))
		if err != nil {
			return adapters{}, err
		}
		out.archiver = archiver
	}

	return out, nil
}
