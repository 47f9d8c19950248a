package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"dewey/contexts/player-experience/bag-service/domain/entities"
	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
)

type stubReadModel struct {
	bags map[string]entities.Bag
	err  error
}

func (s stubReadModel) GetBag(_ context.Context, userID string) (entities.Bag, bool, error) {
	if s.err != nil {
		return entities.Bag{}, false, s.err
	}
	bag, ok := s.bags[userID]
	return bag, ok, nil
}

func TestGetBagReturnsStoredDocument(t *testing.T) {
	stored := entities.Bag{
		UserID:    "user-1",
		Discs:     []entities.DiscSnapshot{{ID: "disc-1", Name: "Buzzz"}},
		UpdatedAt: time.Date(2026, time.April, 2, 15, 0, 0, 0, time.UTC),
	}
	useCase := GetBagUseCase{Bags: stubReadModel{bags: map[string]entities.Bag{"user-1": stored}}}

	result, err := useCase.Execute(context.Background(), GetBagQuery{UserID: "user-1"})
	if err != nil {
		t.Fatalf("expected stored bag, got %v", err)
	}
	if len(result.Bag.Discs) != 1 || result.Bag.Discs[0].ID != "disc-1" {
		t.Fatalf("unexpected bag %+v", result.Bag)
	}
}

func TestGetBagUnknownUserGetsEmptyBag(t *testing.T) {
	useCase := GetBagUseCase{Bags: stubReadModel{bags: map[string]entities.Bag{}}}

	result, err := useCase.Execute(context.Background(), GetBagQuery{UserID: "nobody"})
	if err != nil {
		t.Fatalf("absent document must not be an error, got %v", err)
	}
	if result.Bag.UserID != "nobody" {
		t.Fatalf("expected echoed user id, got %q", result.Bag.UserID)
	}
	if result.Bag.Discs == nil || len(result.Bag.Discs) != 0 {
		t.Fatalf("expected empty disc list, got %+v", result.Bag.Discs)
	}
	if !result.Bag.UpdatedAt.IsZero() {
		t.Fatalf("expected zero updated_at for empty bag, got %v", result.Bag.UpdatedAt)
	}
}

func TestGetBagRejectsBlankUserID(t *testing.T) {
	useCase := GetBagUseCase{Bags: stubReadModel{}}

	_, err := useCase.Execute(context.Background(), GetBagQuery{UserID: "  "})
	if !errors.Is(err, domainerrors.ErrInvalidBagCommand) {
		t.Fatalf("expected ErrInvalidBagCommand, got %v", err)
	}
}

func TestGetBagSurfacesStoreFailure(t *testing.T) {
	storeErr := errors.New("document store down")
	useCase := GetBagUseCase{Bags: stubReadModel{err: storeErr}}

	_, err := useCase.Execute(context.Background(), GetBagQuery{UserID: "user-1"})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store failure to surface, got %v", err)
	}
}
