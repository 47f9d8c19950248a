package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "dewey/contexts/player-experience/bag-service/application"
	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
	"dewey/contexts/player-experience/bag-service/ports"
)

type RemoveDiscCommand struct {
	UserID string
	DiscID string
}

type RemoveDiscResult struct {
	EventID    string
	OccurredAt time.Time
}

type RemoveDiscUseCase struct {
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Source         string
	Topic          string
	PublishTimeout time.Duration
	Logger         *slog.Logger
}

// Execute publishes a DiscRemovedFromBag envelope. No catalog check:
// removing a disc the bag does not hold is a valid no-op downstream.
func (u RemoveDiscUseCase) Execute(ctx context.Context, cmd RemoveDiscCommand) (RemoveDiscResult, error) {
	logger := application.ResolveLogger(u.Logger)

	userID := strings.TrimSpace(cmd.UserID)
	discID := strings.TrimSpace(cmd.DiscID)
	if userID == "" || discID == "" {
		return RemoveDiscResult{}, domainerrors.ErrInvalidBagCommand
	}

	event, err := buildEnvelope(ctx, u.IDGenerator, u.Clock, u.Source,
		ports.EventTypeDiscRemovedFromBag, userID, ports.DiscRemovedFromBagPayload{
			UserID: userID,
			DiscID: discID,
		})
	if err != nil {
		return RemoveDiscResult{}, err
	}

	if err := publish(ctx, u.Publisher, u.Topic, u.PublishTimeout, event); err != nil {
		logger.Error("remove disc publish failed",
			"event", "bag_remove_disc_publish_failed",
			"module", "player-experience/bag-service",
			"layer", "application",
			"user_id", userID,
			"disc_id", discID,
			"error", err.Error(),
		)
		return RemoveDiscResult{}, err
	}

	logger.Info("remove disc accepted",
		"event", "bag_remove_disc_accepted",
		"module", "player-experience/bag-service",
		"layer", "application",
		"user_id", userID,
		"disc_id", discID,
		"event_id", event.EventID,
	)
	return RemoveDiscResult{
		EventID:    event.EventID,
		OccurredAt: event.OccurredAt,
	}, nil
}
