// Package memory provides an in-memory catalog repository seeded with the
// same reference data the postgres adapter migrates, for tests and local runs.
package memory

import (
	"context"
	"sync"

	"dewey/contexts/reference-data/disc-catalog/domain/entities"
)

type Store struct {
	mu      sync.RWMutex
	discs   []entities.Disc
	courses []entities.Course
}

func NewStore() *Store {
	return &Store{
		discs:   SeedDiscs(),
		courses: SeedCourses(),
	}
}

// SeedDiscs returns the baseline catalog rows shared with the postgres seed.
func SeedDiscs() []entities.Disc {
	return []entities.Disc{
		{
			ID:           "1",
			Name:         "Destroyer",
			Manufacturer: "Innova",
			Type:         entities.DiscTypeDistanceDriver,
			Speed:        12,
			Glide:        5,
			Turn:         -1,
			Fade:         3,
			Stability:    entities.StabilityOverstable,
			Plastic:      "Star",
		},
		{
			ID:           "2",
			Name:         "Buzzz",
			Manufacturer: "Discraft",
			Type:         entities.DiscTypeMidrange,
			Speed:        5,
			Glide:        4,
			Turn:         -1,
			Fade:         1,
			Stability:    entities.StabilityStable,
			Plastic:      "Z Line",
		},
		{
			ID:           "3",
			Name:         "Aviar",
			Manufacturer: "Innova",
			Type:         entities.DiscTypePutter,
			Speed:        3,
			Glide:        3,
			Turn:         0,
			Fade:         1,
			Stability:    entities.StabilityStable,
			Plastic:      "DX",
		},
	}
}

// SeedCourses returns the baseline course rows shared with the postgres seed.
func SeedCourses() []entities.Course {
	return []entities.Course{
		{ID: "1", Name: "Water Works Park", Location: "Kansas City, MO"},
		{ID: "2", Name: "Maple Hill", Location: "Leicester, MA"},
		{ID: "3", Name: "La Mirada Regional Park", Location: "La Mirada, CA"},
	}
}

func (s *Store) ListDiscs(_ context.Context) ([]entities.Disc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Disc, len(s.discs))
	copy(out, s.discs)
	return out, nil
}

func (s *Store) GetDisc(_ context.Context, discID string) (entities.Disc, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, disc := range s.discs {
		if disc.ID == discID {
			return disc, true, nil
		}
	}
	return entities.Disc{}, false, nil
}

func (s *Store) ListCourses(_ context.Context) ([]entities.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Course, len(s.courses))
	copy(out, s.courses)
	return out, nil
}

// AddDisc registers an extra catalog entry, for tests.
func (s *Store) AddDisc(disc entities.Disc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discs = append(s.discs, disc)
}
