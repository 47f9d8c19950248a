package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dewey/contexts/player-experience/bag-service/domain/entities"
	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
	"dewey/contexts/player-experience/bag-service/ports"
)

type fakeBagStore struct {
	bags        map[string]*fakeBag
	ensureErr   error
	appendErr   error
	removeErr   error
	appendCalls int
}

type fakeBag struct {
	discs     []entities.DiscSnapshot
	applied   map[string]struct{}
	updatedAt time.Time
}

func newFakeBagStore() *fakeBagStore {
	return &fakeBagStore{bags: make(map[string]*fakeBag)}
}

func (s *fakeBagStore) EnsureBag(_ context.Context, userID string, updatedAt time.Time) error {
	if s.ensureErr != nil {
		return s.ensureErr
	}
	if _, ok := s.bags[userID]; !ok {
		s.bags[userID] = &fakeBag{
			discs:     []entities.DiscSnapshot{},
			applied:   make(map[string]struct{}),
			updatedAt: updatedAt,
		}
	}
	return nil
}

func (s *fakeBagStore) AppendDisc(
	_ context.Context,
	userID string,
	disc entities.DiscSnapshot,
	eventID string,
	updatedAt time.Time,
) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appendCalls++
	bag := s.bags[userID]
	if _, done := bag.applied[eventID]; done {
		return nil
	}
	bag.discs = append(bag.discs, disc)
	bag.applied[eventID] = struct{}{}
	bag.updatedAt = updatedAt
	return nil
}

func (s *fakeBagStore) RemoveDisc(_ context.Context, userID string, discID string, updatedAt time.Time) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	bag, ok := s.bags[userID]
	if !ok {
		return nil
	}
	kept := bag.discs[:0]
	for _, disc := range bag.discs {
		if disc.ID != discID {
			kept = append(kept, disc)
		}
	}
	bag.discs = kept
	bag.updatedAt = updatedAt
	return nil
}

type fakeDedup struct {
	seen    map[string]string
	seenErr error
	markErr error
}

func newFakeDedup() *fakeDedup {
	return &fakeDedup{seen: make(map[string]string)}
}

func (d *fakeDedup) SeenEvent(_ context.Context, eventID string, payloadHash string) (bool, error) {
	if d.seenErr != nil {
		return false, d.seenErr
	}
	existing, ok := d.seen[eventID]
	if !ok {
		return false, nil
	}
	if existing != payloadHash {
		return false, domainerrors.ErrEventPayloadConflict
	}
	return true, nil
}

func (d *fakeDedup) MarkEvent(_ context.Context, eventID string, payloadHash string, _ time.Time) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.seen[eventID] = payloadHash
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newProjector(store *fakeBagStore, dedup *fakeDedup) BagProjector {
	return BagProjector{
		Bags:  store,
		Dedup: dedup,
		Clock: fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
	}
}

func envelopeOf(t *testing.T, eventID string, eventType string, userID string, payload any) ports.EventEnvelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "test",
		OccurredAt:    time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC),
		PartitionKey:  userID,
		Data:          data,
	}
}

func addEnvelope(t *testing.T, eventID string, userID string, discID string) ports.EventEnvelope {
	t.Helper()
	return envelopeOf(t, eventID, ports.EventTypeDiscAddedToBag, userID, ports.DiscAddedToBagPayload{
		UserID: userID,
		Disc:   ports.DiscSnapshotPayload{ID: discID, Name: "Destroyer", Speed: 12, Glide: 5, Turn: -1, Fade: 3},
	})
}

func TestHandleUserRegisteredCreatesEmptyBag(t *testing.T) {
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())

	event := envelopeOf(t, "evt-1", ports.EventTypeUserRegistered, "user-1", ports.UserRegisteredPayload{
		UserID:   "user-1",
		Username: "kira",
		Email:    "kira@example.com",
	})
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("expected registration to apply, got %v", err)
	}

	bag, ok := store.bags["user-1"]
	if !ok {
		t.Fatalf("expected bag document for user-1")
	}
	if len(bag.discs) != 0 {
		t.Fatalf("expected empty bag, got %d discs", len(bag.discs))
	}
	if !bag.updatedAt.Equal(event.OccurredAt) {
		t.Fatalf("expected updated_at %v, got %v", event.OccurredAt, bag.updatedAt)
	}
}

func TestHandleUserRegisteredRedeliveryIsIdempotent(t *testing.T) {
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())

	event := envelopeOf(t, "evt-1", ports.EventTypeUserRegistered, "user-1", ports.UserRegisteredPayload{
		UserID: "user-1",
	})
	for i := 0; i < 3; i++ {
		if err := projector.Handle(context.Background(), event); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}
	if len(store.bags) != 1 {
		t.Fatalf("expected exactly one bag, got %d", len(store.bags))
	}
}

func TestHandleDiscAddedCreatesBagWhenRegistrationNeverArrived(t *testing.T) {
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())

	if err := projector.Handle(context.Background(), addEnvelope(t, "evt-1", "user-1", "disc-7")); err != nil {
		t.Fatalf("expected add to apply, got %v", err)
	}

	bag, ok := store.bags["user-1"]
	if !ok {
		t.Fatalf("expected bag document created by add path")
	}
	if len(bag.discs) != 1 || bag.discs[0].ID != "disc-7" {
		t.Fatalf("expected single disc disc-7, got %+v", bag.discs)
	}
}

func TestHandleRedeliveredAddAppendsOnce(t *testing.T) {
	store := newFakeBagStore()
	dedup := newFakeDedup()
	projector := newProjector(store, dedup)

	event := addEnvelope(t, "evt-1", "user-1", "disc-7")
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	if got := len(store.bags["user-1"].discs); got != 1 {
		t.Fatalf("expected 1 disc after redelivery, got %d", got)
	}
	if store.appendCalls != 1 {
		t.Fatalf("expected dedup to short-circuit the second apply, got %d appends", store.appendCalls)
	}
}

func TestHandleRedeliveredAddAppendsOnceWhenDedupLost(t *testing.T) {
	// The fast-path ledger lost its state; the document ledger must still
	// absorb the duplicate.
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())

	event := addEnvelope(t, "evt-1", "user-1", "disc-7")
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	projector.Dedup = newFakeDedup()
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if got := len(store.bags["user-1"].discs); got != 1 {
		t.Fatalf("expected 1 disc after replay against fresh dedup, got %d", got)
	}
}

func TestHandleOrderingWithinPartition(t *testing.T) {
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())
	ctx := context.Background()

	deliveries := []ports.EventEnvelope{
		addEnvelope(t, "evt-1", "user-1", "disc-a"),
		envelopeOf(t, "evt-2", ports.EventTypeDiscRemovedFromBag, "user-1", ports.DiscRemovedFromBagPayload{
			UserID: "user-1",
			DiscID: "disc-a",
		}),
		addEnvelope(t, "evt-3", "user-1", "disc-b"),
	}
	for i, event := range deliveries {
		if err := projector.Handle(ctx, event); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	discs := store.bags["user-1"].discs
	if len(discs) != 1 || discs[0].ID != "disc-b" {
		t.Fatalf("expected bag to hold only disc-b, got %+v", discs)
	}
}

func TestHandleRemoveAbsentDiscTouchesTimestampOnly(t *testing.T) {
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())
	ctx := context.Background()

	if err := projector.Handle(ctx, addEnvelope(t, "evt-1", "user-1", "disc-a")); err != nil {
		t.Fatalf("seed add: %v", err)
	}

	remove := envelopeOf(t, "evt-2", ports.EventTypeDiscRemovedFromBag, "user-1", ports.DiscRemovedFromBagPayload{
		UserID: "user-1",
		DiscID: "disc-never-added",
	})
	remove.OccurredAt = remove.OccurredAt.Add(time.Minute)
	if err := projector.Handle(ctx, remove); err != nil {
		t.Fatalf("expected remove-absent to be a no-op, got %v", err)
	}

	bag := store.bags["user-1"]
	if len(bag.discs) != 1 {
		t.Fatalf("expected bag contents untouched, got %+v", bag.discs)
	}
	if !bag.updatedAt.Equal(remove.OccurredAt) {
		t.Fatalf("expected updated_at advanced to %v, got %v", remove.OccurredAt, bag.updatedAt)
	}
}

func TestHandleMalformedPayloadSkipsWithoutBlocking(t *testing.T) {
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())

	event := ports.EventEnvelope{
		EventID:    "evt-1",
		EventType:  ports.EventTypeDiscAddedToBag,
		OccurredAt: time.Now().UTC(),
		Data:       json.RawMessage(`{"user_id": 42`),
	}
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("malformed payload must not block the partition, got %v", err)
	}
	if len(store.bags) != 0 {
		t.Fatalf("expected no document writes for malformed payload")
	}
}

func TestHandleUnknownEventTypeSkips(t *testing.T) {
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())

	event := envelopeOf(t, "evt-1", "BagRecalibrated", "user-1", map[string]string{"user_id": "user-1"})
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("unknown event type must be skipped, got %v", err)
	}
	if len(store.bags) != 0 {
		t.Fatalf("expected no document writes for unknown event type")
	}
}

func TestHandleMissingEventIDSkips(t *testing.T) {
	store := newFakeBagStore()
	projector := newProjector(store, newFakeDedup())

	event := addEnvelope(t, "", "user-1", "disc-a")
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("missing event id must be skipped, got %v", err)
	}
	if len(store.bags) != 0 {
		t.Fatalf("expected no document writes without an event id")
	}
}

func TestHandleStoreFailureRequestsRedelivery(t *testing.T) {
	store := newFakeBagStore()
	store.ensureErr = errors.New("document store down")
	dedup := newFakeDedup()
	projector := newProjector(store, dedup)

	event := addEnvelope(t, "evt-1", "user-1", "disc-a")
	if err := projector.Handle(context.Background(), event); err == nil {
		t.Fatalf("expected store failure to propagate for redelivery")
	}
	if _, marked := dedup.seen["evt-1"]; marked {
		t.Fatalf("failed apply must not be marked as processed")
	}

	store.ensureErr = nil
	if err := projector.Handle(context.Background(), event); err != nil {
		t.Fatalf("redelivery after recovery: %v", err)
	}
	if got := len(store.bags["user-1"].discs); got != 1 {
		t.Fatalf("expected disc applied on redelivery, got %d", got)
	}
}

func TestHandleDegradedDedupStillApplies(t *testing.T) {
	store := newFakeBagStore()
	dedup := newFakeDedup()
	dedup.seenErr = errors.New("dedup store unreachable")
	projector := newProjector(store, dedup)

	if err := projector.Handle(context.Background(), addEnvelope(t, "evt-1", "user-1", "disc-a")); err != nil {
		t.Fatalf("degraded dedup must not stop the partition, got %v", err)
	}
	if got := len(store.bags["user-1"].discs); got != 1 {
		t.Fatalf("expected disc applied despite degraded dedup, got %d", got)
	}
}

func TestHandlePayloadHashConflictSkips(t *testing.T) {
	store := newFakeBagStore()
	dedup := newFakeDedup()
	projector := newProjector(store, dedup)

	if err := projector.Handle(context.Background(), addEnvelope(t, "evt-1", "user-1", "disc-a")); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	conflicting := addEnvelope(t, "evt-1", "user-1", "disc-b")
	if err := projector.Handle(context.Background(), conflicting); err != nil {
		t.Fatalf("conflicting reuse must be skipped, not retried, got %v", err)
	}
	if got := len(store.bags["user-1"].discs); got != 1 {
		t.Fatalf("expected conflicting event to be dropped, got %d discs", got)
	}
}
