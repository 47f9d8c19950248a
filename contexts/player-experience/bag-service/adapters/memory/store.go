package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"dewey/contexts/player-experience/bag-service/domain/entities"
	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
)

// Store is an in-memory adapter implementing the bag read/write model,
// dedup store, clock, and id generator for local runtime and tests.
// It is not intended as production persistence.
type Store struct {
	mu         sync.RWMutex
	bags       map[string]*bagDocument
	eventDedup map[string]string
	sequence   uint64
}

type bagDocument struct {
	userID        string
	discs         []entities.DiscSnapshot
	appliedEvents map[string]struct{}
	updatedAt     time.Time
}

func NewStore() *Store {
	return &Store{
		bags:       make(map[string]*bagDocument),
		eventDedup: make(map[string]string),
	}
}

func (s *Store) GetBag(_ context.Context, userID string) (entities.Bag, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.bags[userID]
	if !ok {
		return entities.Bag{}, false, nil
	}
	return entities.Bag{
		UserID:    doc.userID,
		Discs:     append([]entities.DiscSnapshot(nil), doc.discs...),
		UpdatedAt: doc.updatedAt,
	}, true, nil
}

func (s *Store) EnsureBag(_ context.Context, userID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bags[userID]; ok {
		return nil
	}
	s.bags[userID] = &bagDocument{
		userID:        userID,
		discs:         []entities.DiscSnapshot{},
		appliedEvents: make(map[string]struct{}),
		updatedAt:     updatedAt.UTC(),
	}
	return nil
}

func (s *Store) AppendDisc(
	_ context.Context,
	userID string,
	disc entities.DiscSnapshot,
	eventID string,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.bags[userID]
	if !ok {
		return fmt.Errorf("bag document missing for user %s", userID)
	}
	if _, applied := doc.appliedEvents[eventID]; applied {
		return nil
	}
	doc.discs = append(doc.discs, disc)
	doc.appliedEvents[eventID] = struct{}{}
	doc.updatedAt = updatedAt.UTC()
	return nil
}

func (s *Store) RemoveDisc(_ context.Context, userID string, discID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.bags[userID]
	if !ok {
		return nil
	}
	kept := doc.discs[:0]
	for _, disc := range doc.discs {
		if disc.ID != discID {
			kept = append(kept, disc)
		}
	}
	doc.discs = kept
	doc.updatedAt = updatedAt.UTC()
	return nil
}

func (s *Store) SeenEvent(_ context.Context, eventID string, payloadHash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.eventDedup[eventID]
	if !ok {
		return false, nil
	}
	if existing != payloadHash {
		return false, domainerrors.ErrEventPayloadConflict
	}
	return true, nil
}

func (s *Store) MarkEvent(_ context.Context, eventID string, payloadHash string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eventDedup[eventID] = payloadHash
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	next := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("mem-%06d", next), nil
}
