package redisadapter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
)

const dedupKeyPrefix = "dewey:bag:event:"

// DedupStore keeps the applied-event fast path in Redis with TTL expiry.
// The Mongo document ledger stays authoritative; this store only saves
// redeliveries a round trip to the read model.
type DedupStore struct {
	client *redis.Client
}

func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{client: client}
}

func (s *DedupStore) SeenEvent(ctx context.Context, eventID string, payloadHash string) (bool, error) {
	existing, err := s.client.Get(ctx, dedupKeyPrefix+eventID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if existing != payloadHash {
		return false, domainerrors.ErrEventPayloadConflict
	}
	return true, nil
}

func (s *DedupStore) MarkEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, dedupKeyPrefix+eventID, payloadHash, ttl).Err()
}
