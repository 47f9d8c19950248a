package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
	"dewey/contexts/player-experience/bag-service/ports"
)

const (
	defaultBagUpdatesTopic = "bag.updates"
	defaultPublishTimeout  = 5 * time.Second
	defaultSourceService   = "dewey-api"
)

// buildEnvelope marshals the payload and stamps ids/partition key.
// OccurredAt is the producer timestamp used as the read-model last-write
// marker, not a global ordering guarantee.
func buildEnvelope(
	ctx context.Context,
	ids ports.IDGenerator,
	clock ports.Clock,
	source string,
	eventType string,
	userID string,
	payload any,
) (ports.EventEnvelope, error) {
	eventID, err := ids.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, fmt.Errorf("generate event id: %w", err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ports.EventEnvelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	now := time.Now().UTC()
	if clock != nil {
		now = clock.Now().UTC()
	}
	if source == "" {
		source = defaultSourceService
	}

	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: source,
		OccurredAt:    now,
		PartitionKey:  userID,
		Data:          data,
	}, nil
}

// publish hands the envelope to the broker under a bounded timeout.
// A broker failure is surfaced as ErrWriteUnavailable so callers fail
// closed instead of fabricating an accepted response.
func publish(
	ctx context.Context,
	publisher ports.EventPublisher,
	topic string,
	timeout time.Duration,
	event ports.EventEnvelope,
) error {
	if topic == "" {
		topic = defaultBagUpdatesTopic
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	publishCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := publisher.Publish(publishCtx, topic, event); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrWriteUnavailable, err)
	}
	return nil
}
