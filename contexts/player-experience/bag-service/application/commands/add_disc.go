package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "dewey/contexts/player-experience/bag-service/application"
	"dewey/contexts/player-experience/bag-service/domain/entities"
	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
	"dewey/contexts/player-experience/bag-service/ports"
)

type AddDiscCommand struct {
	UserID string
	DiscID string
}

type AddDiscResult struct {
	EventID    string
	Disc       entities.DiscSnapshot
	OccurredAt time.Time
}

type AddDiscUseCase struct {
	Catalog        ports.DiscCatalog
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Source         string
	Topic          string
	PublishTimeout time.Duration
	Logger         *slog.Logger
}

// Execute validates the disc against the catalog before anything reaches
// the log, then publishes a DiscAddedToBag envelope carrying the full
// snapshot. Rejected commands emit no event.
func (u AddDiscUseCase) Execute(ctx context.Context, cmd AddDiscCommand) (AddDiscResult, error) {
	logger := application.ResolveLogger(u.Logger)

	userID := strings.TrimSpace(cmd.UserID)
	discID := strings.TrimSpace(cmd.DiscID)
	if userID == "" || discID == "" {
		return AddDiscResult{}, domainerrors.ErrInvalidBagCommand
	}

	disc, found, err := u.Catalog.GetDisc(ctx, discID)
	if err != nil {
		logger.Error("add disc catalog lookup failed",
			"event", "bag_add_disc_catalog_failed",
			"module", "player-experience/bag-service",
			"layer", "application",
			"user_id", userID,
			"disc_id", discID,
			"error", err.Error(),
		)
		return AddDiscResult{}, err
	}
	if !found {
		return AddDiscResult{}, domainerrors.ErrDiscNotFound
	}

	event, err := buildEnvelope(ctx, u.IDGenerator, u.Clock, u.Source,
		ports.EventTypeDiscAddedToBag, userID, ports.DiscAddedToBagPayload{
			UserID: userID,
			Disc:   ports.NewDiscSnapshotPayload(disc),
		})
	if err != nil {
		return AddDiscResult{}, err
	}

	if err := publish(ctx, u.Publisher, u.Topic, u.PublishTimeout, event); err != nil {
		logger.Error("add disc publish failed",
			"event", "bag_add_disc_publish_failed",
			"module", "player-experience/bag-service",
			"layer", "application",
			"user_id", userID,
			"disc_id", discID,
			"error", err.Error(),
		)
		return AddDiscResult{}, err
	}

	logger.Info("add disc accepted",
		"event", "bag_add_disc_accepted",
		"module", "player-experience/bag-service",
		"layer", "application",
		"user_id", userID,
		"disc_id", discID,
		"event_id", event.EventID,
	)
	return AddDiscResult{
		EventID:    event.EventID,
		Disc:       disc,
		OccurredAt: event.OccurredAt,
	}, nil
}
