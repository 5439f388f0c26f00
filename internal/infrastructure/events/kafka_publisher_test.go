package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()

	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "lotw.events" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "pick.submitted:2025-7-1" {
			return errors.New("unexpected key " + string(key))
		}
		value, _ := msg.Value.Encode()
		if !strings.Contains(string(value), `"type":"pick.submitted"`) || !strings.Contains(string(value), `"team_id":"DEN"`) {
			return errors.New("unexpected value " + string(value))
		}
		if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != usecase.EventPickSubmitted {
			return errors.New("missing event type header")
		}
		return nil
	})

	publisher := newKafkaPublisher(producer, "lotw.events", logging.NewNop())
	err := publisher.Publish(context.Background(), usecase.Event{
		Type:       usecase.EventPickSubmitted,
		Key:        "2025-7-1",
		Season:     2025,
		Week:       7,
		Payload:    map[string]any{"team_id": "DEN"},
		OccurredAt: time.Date(2025, time.October, 15, 16, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	t.Parallel()

	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	publisher := newKafkaPublisher(producer, "lotw.events", logging.NewNop())
	err := publisher.Publish(context.Background(), usecase.Event{Type: usecase.EventWeekScored, Key: "2025-6"})
	if !errors.Is(err, sarama.ErrNotLeaderForPartition) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
	_ = publisher.Close()
}

func TestKafkaPublisher_RequiresType(t *testing.T) {
	t.Parallel()

	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	publisher := newKafkaPublisher(producer, "lotw.events", logging.NewNop())
	if err := publisher.Publish(context.Background(), usecase.Event{}); err == nil {
		t.Fatalf("expected error for empty event type")
	}
	_ = publisher.Close()
}
