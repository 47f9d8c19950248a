package mongoadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dewey/contexts/player-experience/bag-service/domain/entities"
)

const (
	bagsCollection = "bags"

	// appliedEventsCap bounds the per-document event ledger; it only needs
	// to cover the broker's redelivery horizon, not full history.
	appliedEventsCap = 256
)

// Store is the MongoDB read-model adapter. One document per user, mutated
// exclusively by the projector through document-level atomic updates, so
// concurrent query reads never observe a torn document.
type Store struct {
	bags   *mongo.Collection
	logger *slog.Logger
}

func NewStore(db *mongo.Database, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		bags:   db.Collection(bagsCollection),
		logger: logger,
	}
}

type discDocument struct {
	ID           string  `bson:"id"`
	Name         string  `bson:"name"`
	Manufacturer string  `bson:"manufacturer,omitempty"`
	Type         string  `bson:"type,omitempty"`
	Speed        float64 `bson:"speed"`
	Glide        float64 `bson:"glide"`
	Turn         float64 `bson:"turn"`
	Fade         float64 `bson:"fade"`
	Stability    string  `bson:"stability,omitempty"`
	Plastic      string  `bson:"plastic,omitempty"`
}

type bagDocument struct {
	UserID        string         `bson:"user_id"`
	Discs         []discDocument `bson:"discs"`
	AppliedEvents []string       `bson:"applied_events"`
	UpdatedAt     time.Time      `bson:"updated_at"`
}

// EnsureIndexes creates the unique user_id index; both creation paths
// (UserRegistered and the defensive add path) rely on it to converge on a
// single document per user.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.bags.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) GetBag(ctx context.Context, userID string) (entities.Bag, bool, error) {
	var doc bagDocument
	err := s.bags.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.Bag{}, false, nil
	}
	if err != nil {
		return entities.Bag{}, false, err
	}

	discs := make([]entities.DiscSnapshot, 0, len(doc.Discs))
	for _, disc := range doc.Discs {
		discs = append(discs, entities.DiscSnapshot{
			ID:           disc.ID,
			Name:         disc.Name,
			Manufacturer: disc.Manufacturer,
			Type:         disc.Type,
			Speed:        disc.Speed,
			Glide:        disc.Glide,
			Turn:         disc.Turn,
			Fade:         disc.Fade,
			Stability:    disc.Stability,
			Plastic:      disc.Plastic,
		})
	}
	return entities.Bag{
		UserID:    doc.UserID,
		Discs:     discs,
		UpdatedAt: doc.UpdatedAt,
	}, true, nil
}

func (s *Store) EnsureBag(ctx context.Context, userID string, updatedAt time.Time) error {
	// $setOnInsert only: replaying UserRegistered must not overwrite an
	// existing bag or its updated_at.
	_, err := s.bags.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"user_id":        userID,
			"discs":          bson.A{},
			"applied_events": bson.A{},
			"updated_at":     updatedAt.UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) AppendDisc(
	ctx context.Context,
	userID string,
	disc entities.DiscSnapshot,
	eventID string,
	updatedAt time.Time,
) error {
	// The ledger filter and the push are one atomic update; a redelivered
	// event id matches zero documents and the append cannot double-count.
	// No upsert here: combined with the $ne filter it would insert a
	// second document on replay, which EnsureBag exists to prevent.
	res, err := s.bags.UpdateOne(ctx,
		bson.M{
			"user_id":        userID,
			"applied_events": bson.M{"$ne": eventID},
		},
		bson.M{
			"$push": bson.M{
				"discs": discDocument{
					ID:           disc.ID,
					Name:         disc.Name,
					Manufacturer: disc.Manufacturer,
					Type:         disc.Type,
					Speed:        disc.Speed,
					Glide:        disc.Glide,
					Turn:         disc.Turn,
					Fade:         disc.Fade,
					Stability:    disc.Stability,
					Plastic:      disc.Plastic,
				},
				"applied_events": bson.M{
					"$each":  bson.A{eventID},
					"$slice": -appliedEventsCap,
				},
			},
			"$set": bson.M{"updated_at": updatedAt.UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		s.logger.Debug("disc append replay ignored",
			"event", "bag_store_append_replayed",
			"module", "player-experience/bag-service",
			"layer", "adapter",
			"user_id", userID,
			"event_id", eventID,
		)
	}
	return nil
}

func (s *Store) RemoveDisc(ctx context.Context, userID string, discID string, updatedAt time.Time) error {
	// $pull is naturally idempotent; updated_at moves even when nothing
	// matched, which is the documented no-op contract for removes.
	_, err := s.bags.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$pull": bson.M{"discs": bson.M{"id": discID}},
			"$set":  bson.M{"updated_at": updatedAt.UTC()},
		},
	)
	return err
}
