package queries

import (
	"context"
	"log/slog"

	application "dewey/contexts/reference-data/disc-catalog/application"
	"dewey/contexts/reference-data/disc-catalog/domain/entities"
	"dewey/contexts/reference-data/disc-catalog/ports"
)

type ListDiscsResult struct {
	Items []entities.Disc
}

type ListDiscsUseCase struct {
	Discs  ports.DiscRepository
	Logger *slog.Logger
}

func (u ListDiscsUseCase) Execute(ctx context.Context) (ListDiscsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	items, err := u.Discs.ListDiscs(ctx)
	if err != nil {
		logger.Error("list discs failed",
			"event", "catalog_list_discs_failed",
			"module", "reference-data/disc-catalog",
			"layer", "application",
			"error", err.Error(),
		)
		return ListDiscsResult{}, err
	}
	return ListDiscsResult{Items: items}, nil
}
