package queries

import (
	"context"
	"log/slog"
	"strings"

	application "dewey/contexts/player-experience/bag-service/application"
	"dewey/contexts/player-experience/bag-service/domain/entities"
	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
	"dewey/contexts/player-experience/bag-service/ports"
)

type GetBagQuery struct {
	UserID string
}

type GetBagResult struct {
	Bag entities.Bag
}

// GetBagUseCase reads the document store directly; it has no broker
// dependency, so reads keep working through a command-path outage.
type GetBagUseCase struct {
	Bags   ports.BagReadModel
	Logger *slog.Logger
}

func (u GetBagUseCase) Execute(ctx context.Context, query GetBagQuery) (GetBagResult, error) {
	logger := application.ResolveLogger(u.Logger)

	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		return GetBagResult{}, domainerrors.ErrInvalidBagCommand
	}

	bag, found, err := u.Bags.GetBag(ctx, userID)
	if err != nil {
		logger.Error("get bag failed",
			"event", "bag_get_failed",
			"module", "player-experience/bag-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return GetBagResult{}, err
	}
	if !found {
		// No applied events yet; an empty bag is the valid answer.
		return GetBagResult{Bag: entities.EmptyBag(userID)}, nil
	}
	return GetBagResult{Bag: bag}, nil
}
