package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dewey/contexts/player-experience/bag-service/ports"

	"github.com/segmentio/kafka-go"
)

const (
	defaultMaxRetries = 5
	baseBackoff       = 500 * time.Millisecond
	maxBackoff        = 30 * time.Second
)

// Publisher writes envelopes to Kafka. Messages are keyed by the envelope
// partition key so all events for one user land on one partition, in order.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisher(brokers []string, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: writer, logger: logger}, nil
}

func (p *Publisher) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.PartitionKey),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	p.logger.Info("event published",
		"event", "kafka_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Subscriber consumes a topic within a consumer group. Offsets are committed
// only after the handler returns nil, so a crash mid-apply redelivers.
type Subscriber struct {
	brokers    []string
	maxRetries int
	alerter    ports.Alerter
	logger     *slog.Logger
}

func NewSubscriber(brokers []string, maxRetries int, alerter ports.Alerter, logger *slog.Logger) (*Subscriber, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		brokers:    brokers,
		maxRetries: maxRetries,
		alerter:    alerter,
		logger:     logger,
	}, nil
}

func (s *Subscriber) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  s.brokers,
		GroupID:  consumerGroup,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	})

	go s.consume(ctx, reader, topic, consumerGroup, handler)
	return nil
}

func (s *Subscriber) consume(
	ctx context.Context,
	reader *kafka.Reader,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) {
	defer func() {
		if err := reader.Close(); err != nil {
			s.logger.Warn("close kafka reader failed",
				"event", "kafka_reader_close_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"error", err.Error(),
			)
		}
	}()

	for {
		message, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			s.logger.Error("fetch kafka message failed",
				"event", "kafka_fetch_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", consumerGroup,
				"error", err.Error(),
			)
			if !sleepCtx(ctx, baseBackoff) {
				return
			}
			continue
		}

		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Value, &envelope); err != nil {
			// A message that is not an envelope can never succeed; commit
			// past it so the partition does not stall.
			s.logger.Warn("malformed message skipped",
				"event", "kafka_malformed_message",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err.Error(),
			)
			if err := reader.CommitMessages(ctx, message); err != nil {
				s.logger.Error("commit skipped message failed",
					"event", "kafka_commit_failed",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"error", err.Error(),
				)
			}
			continue
		}

		if !s.handleWithRetry(ctx, topic, consumerGroup, envelope, handler) {
			return
		}

		if err := reader.CommitMessages(ctx, message); err != nil {
			// Redelivery after a failed commit is safe; the dedup ledger
			// absorbs the duplicate.
			s.logger.Error("commit offset failed",
				"event", "kafka_commit_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"event_id", envelope.EventID,
				"error", err.Error(),
			)
		}
	}
}

// handleWithRetry drives the handler until it succeeds or the context ends.
// The message is never abandoned: skipping a failed event would break
// per-user ordering for everything behind it.
func (s *Subscriber) handleWithRetry(
	ctx context.Context,
	topic string,
	consumerGroup string,
	envelope ports.EventEnvelope,
	handler func(context.Context, ports.EventEnvelope) error,
) bool {
	attempt := 0
	for {
		err := handler(ctx, envelope)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		attempt++
		s.logger.Error("consumer handler failed",
			"event", "kafka_consume_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"consumer_group", consumerGroup,
			"event_id", envelope.EventID,
			"event_type", envelope.EventType,
			"attempt", attempt,
			"error", err.Error(),
		)
		if attempt%s.maxRetries == 0 && s.alerter != nil {
			s.alerter.Alert(ctx, "bag projection stalled",
				fmt.Sprintf("event %s (%s) failed %d times: %v", envelope.EventID, envelope.EventType, attempt, err))
		}
		if !sleepCtx(ctx, backoffFor(attempt)) {
			return false
		}
	}
}

func backoffFor(attempt int) time.Duration {
	backoff := baseBackoff << uint(attempt-1)
	if backoff <= 0 || backoff > maxBackoff {
		return maxBackoff
	}
	return backoff
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
