package ports

import (
	"context"
	"time"

	"dewey/contexts/player-experience/bag-service/domain/entities"
	"dewey/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for player and event identifiers.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical envelope contract.
type EventEnvelope = events.Envelope

// EventPublisher publishes envelopes to a topic, keyed by the envelope
// partition key so one user's events stay ordered. Implementations must be
// safe for concurrent use; commands call Publish under a bounded timeout.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a consumer-group handler for a topic.
// Delivery is at-least-once: a nil handler result commits/advances the
// consumer position, a non-nil result leaves the message uncommitted for
// redelivery. Handlers must therefore be idempotent.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

// BagReadModel is the query-side boundary. Absence of a document is a
// valid result (found=false), never an error.
type BagReadModel interface {
	GetBag(ctx context.Context, userID string) (entities.Bag, bool, error)
}

// BagWriteModel is the projector-side boundary. Every operation is a
// document-level atomic update and idempotent under redelivery.
type BagWriteModel interface {
	// EnsureBag upsert-creates an empty bag document if absent; it never
	// touches an existing document. Shared by UserRegistered handling and
	// the defensive DiscAddedToBag path so both converge on one shape.
	EnsureBag(ctx context.Context, userID string, updatedAt time.Time) error
	// AppendDisc appends the snapshot and records eventID in the document's
	// applied-event ledger in one atomic update; a replayed eventID is a
	// no-op. The document must already exist (EnsureBag first).
	AppendDisc(ctx context.Context, userID string, disc entities.DiscSnapshot, eventID string, updatedAt time.Time) error
	// RemoveDisc pulls all entries matching discID and sets updated_at.
	// A disc not present is a no-op apart from updated_at.
	RemoveDisc(ctx context.Context, userID string, discID string, updatedAt time.Time) error
}

// EventDedupStore is a best-effort fast path in front of the document
// ledger. SeenEvent is checked before apply, MarkEvent is written only
// after a successful apply, so a crash anywhere in between still
// redelivers into an idempotent store write. A hash mismatch for a known
// event id is ErrEventPayloadConflict.
type EventDedupStore interface {
	SeenEvent(ctx context.Context, eventID string, payloadHash string) (bool, error)
	MarkEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) error
}

// DiscCatalog is the narrow read-only reference-data boundary commands use
// for existence checks. The catalog is owned elsewhere.
type DiscCatalog interface {
	GetDisc(ctx context.Context, discID string) (entities.DiscSnapshot, bool, error)
}

// Alerter is the operational alerting collaborator used when the broker
// redelivery policy is exhausted for a message.
type Alerter interface {
	Alert(ctx context.Context, subject string, detail string)
}
