package memory

import (
	"context"
	"testing"

	"dewey/contexts/reference-data/disc-catalog/domain/entities"
)

func TestStoreSeedsBaselineCatalog(t *testing.T) {
	store := NewStore()

	discs, err := store.ListDiscs(context.Background())
	if err != nil {
		t.Fatalf("list discs: %v", err)
	}
	if len(discs) != 3 {
		t.Fatalf("expected 3 seeded discs, got %d", len(discs))
	}

	courses, err := store.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	if len(courses) != 3 {
		t.Fatalf("expected 3 seeded courses, got %d", len(courses))
	}
}

func TestGetDiscByID(t *testing.T) {
	store := NewStore()

	disc, found, err := store.GetDisc(context.Background(), "1")
	if err != nil {
		t.Fatalf("get disc: %v", err)
	}
	if !found {
		t.Fatalf("expected seeded disc 1")
	}
	if disc.Name != "Destroyer" || disc.Type != entities.DiscTypeDistanceDriver {
		t.Fatalf("unexpected disc %+v", disc)
	}
	if disc.FlightNumbers() != "12/5/-1/3" {
		t.Fatalf("unexpected flight numbers %q", disc.FlightNumbers())
	}
}

func TestGetDiscUnknownIsNotFoundNotError(t *testing.T) {
	store := NewStore()

	_, found, err := store.GetDisc(context.Background(), "999")
	if err != nil {
		t.Fatalf("unknown disc must not error, got %v", err)
	}
	if found {
		t.Fatalf("expected found=false for unknown disc")
	}
}

func TestListDiscsReturnsCopy(t *testing.T) {
	store := NewStore()

	discs, _ := store.ListDiscs(context.Background())
	discs[0].Name = "mutated"

	fresh, _ := store.ListDiscs(context.Background())
	if fresh[0].Name == "mutated" {
		t.Fatalf("list must not expose internal slice")
	}
}
