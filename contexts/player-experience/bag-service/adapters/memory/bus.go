package memory

import (
	"context"
	"log/slog"
	"sync"

	"dewey/contexts/player-experience/bag-service/ports"
)

// Bus is an in-process event log for local runtime and tests. Delivery is
// synchronous and in publish order per topic, which mirrors the per-key
// ordering a partitioned broker gives one user. Handler errors trigger
// bounded redelivery before the message is abandoned.
type Bus struct {
	mu              sync.RWMutex
	subscribers     map[string][]func(context.Context, ports.EventEnvelope) error
	published       map[string][]ports.EventEnvelope
	maxRedeliveries int
	logger          *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers:     make(map[string][]func(context.Context, ports.EventEnvelope) error),
		published:       make(map[string][]ports.EventEnvelope),
		maxRedeliveries: 3,
		logger:          logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	b.mu.Lock()
	b.published[topic] = append(b.published[topic], event)
	handlers := append([]func(context.Context, ports.EventEnvelope) error(nil), b.subscribers[topic]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		var err error
		for attempt := 0; attempt <= b.maxRedeliveries; attempt++ {
			if err = handler(ctx, event); err == nil {
				break
			}
		}
		if err != nil {
			b.logger.Error("in-process delivery abandoned",
				"event", "memory_bus_delivery_abandoned",
				"module", "player-experience/bag-service",
				"layer", "adapter",
				"topic", topic,
				"event_id", event.EventID,
				"error", err.Error(),
			)
		}
	}
	return nil
}

func (b *Bus) Subscribe(
	_ context.Context,
	topic string,
	_ string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	return nil
}

// Published returns a copy of everything published to topic, oldest first.
func (b *Bus) Published(topic string) []ports.EventEnvelope {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]ports.EventEnvelope(nil), b.published[topic]...)
}
