package events

import (
	"context"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

const eventTypeHeader = "event-type"

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
	Timeout  time.Duration
}

// KafkaPublisher writes domain events to one topic, keyed so that events for
// the same pick or week land on the same partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logging.Logger
}

func NewKafkaPublisher(cfg KafkaConfig, logger *logging.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, crerr.New("kafka brokers are required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, crerr.New("kafka topic is required")
	}

	config := sarama.NewConfig()
	config.ClientID = strings.TrimSpace(cfg.ClientID)
	if config.ClientID == "" {
		config.ClientID = "lock-of-the-week"
	}
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	if cfg.Timeout > 0 {
		config.Producer.Timeout = cfg.Timeout
		config.Net.DialTimeout = cfg.Timeout
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, crerr.Wrapf(err, "create kafka producer brokers=%s", strings.Join(cfg.Brokers, ","))
	}
	return newKafkaPublisher(producer, cfg.Topic, logger), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, topic string, logger *logging.Logger) *KafkaPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &KafkaPublisher{producer: producer, topic: strings.TrimSpace(topic), logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event usecase.Event) error {
	if strings.TrimSpace(event.Type) == "" {
		return crerr.New("event type is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	value, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrapf(err, "marshal %s event", event.Type)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.Type + ":" + event.Key),
		Value:     sarama.ByteEncoder(value),
		Timestamp: event.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte(eventTypeHeader), Value: []byte(event.Type)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return crerr.Wrapf(err, "publish %s event key=%s", event.Type, event.Key)
	}
	p.logger.DebugContext(ctx, "event published", "type", event.Type, "key", event.Key, "partition", partition, "offset", offset)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return crerr.Wrap(err, "close kafka producer")
	}
	return nil
}
