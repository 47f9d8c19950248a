package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "dewey/contexts/player-experience/bag-service/application"
	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
	"dewey/contexts/player-experience/bag-service/ports"
)

const (
	defaultBagUpdatesTopic = "bag.updates"
	defaultConsumerGroup   = "bag-worker-group"
)

// BagProjector is the single writer of bag documents. It consumes the bag
// update log and applies each event through the received -> validated ->
// applied -> committed state machine: a nil handler result lets the
// subscriber commit, any error leaves the message uncommitted for
// redelivery. Within a partition processing is strictly sequential, which
// is what provides the per-user ordering guarantee.
type BagProjector struct {
	Subscriber    ports.EventSubscriber
	Bags          ports.BagWriteModel
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	Topic         string
	ConsumerGroup string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

func (p BagProjector) Start(ctx context.Context) error {
	topic := p.Topic
	if topic == "" {
		topic = defaultBagUpdatesTopic
	}
	group := p.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}
	return p.Subscriber.Subscribe(ctx, topic, group, p.Handle)
}

// Handle applies one envelope. Malformed events are logged and skipped
// (returning nil so the partition never blocks); store failures are
// returned so the broker redelivers in order.
func (p BagProjector) Handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(p.Logger)
	now := time.Now().UTC()
	if p.Clock != nil {
		now = p.Clock.Now().UTC()
	}

	if strings.TrimSpace(event.EventID) == "" {
		p.skip(logger, event, "missing event_id")
		return nil
	}

	payloadHash := hashPayload(event.Data)
	alreadyProcessed, err := p.Dedup.SeenEvent(ctx, event.EventID, payloadHash)
	if errors.Is(err, domainerrors.ErrEventPayloadConflict) {
		// Same id, different bytes: the envelope contract was violated
		// upstream. Permanent, so skip rather than block the partition.
		p.skip(logger, event, "payload hash conflict")
		return nil
	}
	if err != nil {
		// Dedup is a fast path only; the document ledger is authoritative,
		// so a degraded dedup store must not stop the partition.
		logger.Warn("bag event dedupe check degraded",
			"event", "bag_projector_dedupe_check_degraded",
			"module", "player-experience/bag-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
	} else if alreadyProcessed {
		logger.Debug("bag event already processed",
			"event", "bag_projector_event_replayed",
			"module", "player-experience/bag-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}

	if err := p.apply(ctx, logger, event); err != nil {
		return err
	}

	// Mark only after a successful apply; a crash before this line just
	// means one extra idempotent re-apply on redelivery.
	if err := p.Dedup.MarkEvent(ctx, event.EventID, payloadHash, now.Add(p.dedupTTL())); err != nil {
		logger.Warn("bag event dedupe mark degraded",
			"event", "bag_projector_dedupe_mark_degraded",
			"module", "player-experience/bag-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
	}
	return nil
}

func (p BagProjector) apply(ctx context.Context, logger *slog.Logger, event ports.EventEnvelope) error {
	switch event.EventType {
	case ports.EventTypeUserRegistered:
		var payload ports.UserRegisteredPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || strings.TrimSpace(payload.UserID) == "" {
			p.skip(logger, event, "malformed UserRegistered payload")
			return nil
		}
		if err := p.Bags.EnsureBag(ctx, payload.UserID, event.OccurredAt); err != nil {
			return p.applyFailed(logger, event, payload.UserID, err)
		}
		p.applied(logger, event, payload.UserID)
		return nil

	case ports.EventTypeDiscAddedToBag:
		var payload ports.DiscAddedToBagPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil ||
			strings.TrimSpace(payload.UserID) == "" ||
			strings.TrimSpace(payload.Disc.ID) == "" {
			p.skip(logger, event, "malformed DiscAddedToBag payload")
			return nil
		}
		// EnsureBag defends against a lost or late UserRegistered event;
		// both creation paths converge on the same document shape.
		if err := p.Bags.EnsureBag(ctx, payload.UserID, event.OccurredAt); err != nil {
			return p.applyFailed(logger, event, payload.UserID, err)
		}
		if err := p.Bags.AppendDisc(ctx, payload.UserID, payload.Disc.ToEntity(), event.EventID, event.OccurredAt); err != nil {
			return p.applyFailed(logger, event, payload.UserID, err)
		}
		p.applied(logger, event, payload.UserID)
		return nil

	case ports.EventTypeDiscRemovedFromBag:
		var payload ports.DiscRemovedFromBagPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil ||
			strings.TrimSpace(payload.UserID) == "" ||
			strings.TrimSpace(payload.DiscID) == "" {
			p.skip(logger, event, "malformed DiscRemovedFromBag payload")
			return nil
		}
		if err := p.Bags.RemoveDisc(ctx, payload.UserID, payload.DiscID, event.OccurredAt); err != nil {
			return p.applyFailed(logger, event, payload.UserID, err)
		}
		p.applied(logger, event, payload.UserID)
		return nil

	default:
		// Closed event set: reject loudly, never drop silently.
		p.skip(logger, event, "unknown event_type")
		return nil
	}
}

func (p BagProjector) applyFailed(logger *slog.Logger, event ports.EventEnvelope, userID string, err error) error {
	logger.Error("bag event apply failed",
		"event", "bag_projector_apply_failed",
		"module", "player-experience/bag-service",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"user_id", userID,
		"error", err.Error(),
	)
	return err
}

func (p BagProjector) applied(logger *slog.Logger, event ports.EventEnvelope, userID string) {
	logger.Info("bag event applied",
		"event", "bag_projector_event_applied",
		"module", "player-experience/bag-service",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"user_id", userID,
	)
}

func (p BagProjector) skip(logger *slog.Logger, event ports.EventEnvelope, reason string) {
	logger.Warn("bag event rejected",
		"event", "bag_projector_event_rejected",
		"module", "player-experience/bag-service",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"reason", reason,
	)
}

func (p BagProjector) dedupTTL() time.Duration {
	if p.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return p.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
