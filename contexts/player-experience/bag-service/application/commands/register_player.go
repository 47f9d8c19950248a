package commands

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	application "dewey/contexts/player-experience/bag-service/application"
	domainerrors "dewey/contexts/player-experience/bag-service/domain/errors"
	"dewey/contexts/player-experience/bag-service/ports"
)

type RegisterPlayerCommand struct {
	Username   string
	Email      string
	SkillLevel string
}

type RegisterPlayerResult struct {
	UserID     string
	EventID    string
	OccurredAt time.Time
}

type RegisterPlayerUseCase struct {
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Source         string
	Topic          string
	PublishTimeout time.Duration
	Logger         *slog.Logger
}

// Execute validates the profile, mints a player id, and publishes a
// UserRegistered envelope. The result is an acknowledgement that the intent
// is durably queued; it carries no read-model visibility guarantee.
func (u RegisterPlayerUseCase) Execute(ctx context.Context, cmd RegisterPlayerCommand) (RegisterPlayerResult, error) {
	logger := application.ResolveLogger(u.Logger)

	username := strings.TrimSpace(cmd.Username)
	email := strings.TrimSpace(cmd.Email)
	if username == "" || email == "" {
		return RegisterPlayerResult{}, domainerrors.ErrInvalidRegistration
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return RegisterPlayerResult{}, domainerrors.ErrInvalidRegistration
	}
	skillLevel := strings.TrimSpace(cmd.SkillLevel)
	if skillLevel == "" {
		skillLevel = "beginner"
	}

	userID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return RegisterPlayerResult{}, err
	}

	event, err := buildEnvelope(ctx, u.IDGenerator, u.Clock, u.Source,
		ports.EventTypeUserRegistered, userID, ports.UserRegisteredPayload{
			UserID:     userID,
			Username:   username,
			Email:      email,
			SkillLevel: skillLevel,
		})
	if err != nil {
		return RegisterPlayerResult{}, err
	}

	if err := publish(ctx, u.Publisher, u.Topic, u.PublishTimeout, event); err != nil {
		logger.Error("register player publish failed",
			"event", "bag_register_publish_failed",
			"module", "player-experience/bag-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return RegisterPlayerResult{}, err
	}

	logger.Info("register player accepted",
		"event", "bag_register_accepted",
		"module", "player-experience/bag-service",
		"layer", "application",
		"user_id", userID,
		"event_id", event.EventID,
	)
	return RegisterPlayerResult{
		UserID:     userID,
		EventID:    event.EventID,
		OccurredAt: event.OccurredAt,
	}, nil
}
