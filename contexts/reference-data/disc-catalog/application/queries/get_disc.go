package queries

import (
	"context"
	"log/slog"
	"strings"

	application "dewey/contexts/reference-data/disc-catalog/application"
	"dewey/contexts/reference-data/disc-catalog/domain/entities"
	domainerrors "dewey/contexts/reference-data/disc-catalog/domain/errors"
	"dewey/contexts/reference-data/disc-catalog/ports"
)

type GetDiscQuery struct {
	DiscID string
}

type GetDiscResult struct {
	Disc entities.Disc
}

type GetDiscUseCase struct {
	Discs  ports.DiscRepository
	Logger *slog.Logger
}

func (u GetDiscUseCase) Execute(ctx context.Context, query GetDiscQuery) (GetDiscResult, error) {
	logger := application.ResolveLogger(u.Logger)

	discID := strings.TrimSpace(query.DiscID)
	if discID == "" {
		return GetDiscResult{}, domainerrors.ErrInvalidDiscID
	}

	disc, found, err := u.Discs.GetDisc(ctx, discID)
	if err != nil {
		logger.Error("get disc failed",
			"event", "catalog_get_disc_failed",
			"module", "reference-data/disc-catalog",
			"layer", "application",
			"disc_id", discID,
			"error", err.Error(),
		)
		return GetDiscResult{}, err
	}
	if !found {
		return GetDiscResult{}, domainerrors.ErrDiscNotFound
	}
	return GetDiscResult{Disc: disc}, nil
}
