package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "dewey/contexts/player-experience/bag-service/application"
	"dewey/contexts/player-experience/bag-service/application/commands"
	"dewey/contexts/player-experience/bag-service/application/queries"
	"dewey/contexts/player-experience/bag-service/domain/entities"
	httptransport "dewey/contexts/player-experience/bag-service/transport/http"
)

// ackMessage is intentionally explicit about eventual consistency: the
// intent is queued, not yet visible to reads.
const ackMessage = "accepted; bag update queued"

type Handler struct {
	RegisterPlayer commands.RegisterPlayerUseCase
	AddDisc        commands.AddDiscUseCase
	RemoveDisc     commands.RemoveDiscUseCase
	GetBag         queries.GetBagUseCase
	Logger         *slog.Logger
}

// RegisterPlayerHandler godoc
// @Summary Register a player
// @Description Queues a UserRegistered event; the bag document appears asynchronously.
// @Tags bag-service
// @Accept json
// @Produce json
// @Param request body httptransport.RegisterPlayerRequest true "Profile"
// @Success 202 {object} httptransport.RegisterPlayerResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /register [post]
func (h Handler) RegisterPlayerHandler(ctx context.Context, req httptransport.RegisterPlayerRequest) (httptransport.RegisterPlayerResponse, error) {
	result, err := h.RegisterPlayer.Execute(ctx, commands.RegisterPlayerCommand{
		Username:   req.Username,
		Email:      req.Email,
		SkillLevel: req.SkillLevel,
	})
	if err != nil {
		return httptransport.RegisterPlayerResponse{}, err
	}
	return httptransport.RegisterPlayerResponse{
		UserID:   result.UserID,
		EventID:  result.EventID,
		QueuedAt: formatTime(result.OccurredAt),
		Message:  ackMessage,
	}, nil
}

// AddDiscHandler godoc
// @Summary Add a disc to the bag
// @Description Validates the disc against the catalog, then queues a DiscAddedToBag event.
// @Tags bag-service
// @Accept json
// @Produce json
// @Param request body httptransport.BagCommandRequest true "User and disc ids"
// @Success 202 {object} httptransport.BagCommandResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /bag/add [post]
func (h Handler) AddDiscHandler(ctx context.Context, req httptransport.BagCommandRequest) (httptransport.BagCommandResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("add disc request received",
		"event", "http_bag_add_received",
		"module", "player-experience/bag-service",
		"layer", "transport",
		"user_id", req.UserID,
		"disc_id", req.DiscID,
	)

	result, err := h.AddDisc.Execute(ctx, commands.AddDiscCommand{
		UserID: req.UserID,
		DiscID: req.DiscID,
	})
	if err != nil {
		return httptransport.BagCommandResponse{}, err
	}
	return httptransport.BagCommandResponse{
		EventID:  result.EventID,
		QueuedAt: formatTime(result.OccurredAt),
		Message:  ackMessage,
	}, nil
}

// RemoveDiscHandler godoc
// @Summary Remove a disc from the bag
// @Description Queues a DiscRemovedFromBag event; removing an absent disc is a no-op.
// @Tags bag-service
// @Accept json
// @Produce json
// @Param request body httptransport.BagCommandRequest true "User and disc ids"
// @Success 202 {object} httptransport.BagCommandResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /bag/remove [delete]
func (h Handler) RemoveDiscHandler(ctx context.Context, req httptransport.BagCommandRequest) (httptransport.BagCommandResponse, error) {
	result, err := h.RemoveDisc.Execute(ctx, commands.RemoveDiscCommand{
		UserID: req.UserID,
		DiscID: req.DiscID,
	})
	if err != nil {
		return httptransport.BagCommandResponse{}, err
	}
	return httptransport.BagCommandResponse{
		EventID:  result.EventID,
		QueuedAt: formatTime(result.OccurredAt),
		Message:  ackMessage,
	}, nil
}

// ViewBagHandler godoc
// @Summary View a player's bag
// @Description Reads the bag document; an unknown user gets an empty bag. May lag recent commands.
// @Tags bag-service
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {object} httptransport.BagResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /bag/view/{user_id} [get]
func (h Handler) ViewBagHandler(ctx context.Context, userID string) (httptransport.BagResponse, error) {
	result, err := h.GetBag.Execute(ctx, queries.GetBagQuery{UserID: userID})
	if err != nil {
		return httptransport.BagResponse{}, err
	}

	resp := httptransport.BagResponse{
		UserID: result.Bag.UserID,
		Discs:  mapDiscs(result.Bag.Discs),
	}
	if !result.Bag.UpdatedAt.IsZero() {
		resp.UpdatedAt = formatTime(result.Bag.UpdatedAt)
	}
	return resp, nil
}

func mapDiscs(discs []entities.DiscSnapshot) []httptransport.DiscSnapshotDTO {
	items := make([]httptransport.DiscSnapshotDTO, 0, len(discs))
	for _, disc := range discs {
		items = append(items, httptransport.DiscSnapshotDTO{
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
	return items
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
