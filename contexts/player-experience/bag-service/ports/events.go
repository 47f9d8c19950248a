package ports

import "dewey/contexts/player-experience/bag-service/domain/entities"

// Closed set of bag event types. The projector rejects anything else.
const (
	EventTypeUserRegistered     = "UserRegistered"
	EventTypeDiscAddedToBag     = "DiscAddedToBag"
	EventTypeDiscRemovedFromBag = "DiscRemovedFromBag"
)

// UserRegisteredPayload carries the player id and profile fields.
type UserRegisteredPayload struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	SkillLevel string `json:"skill_level"`
}

// DiscSnapshotPayload is the full catalog snapshot embedded in add events.
type DiscSnapshotPayload struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Type         string  `json:"type,omitempty"`
	Speed        float64 `json:"speed"`
	Glide        float64 `json:"glide"`
	Turn         float64 `json:"turn"`
	Fade         float64 `json:"fade"`
	Stability    string  `json:"stability,omitempty"`
	Plastic      string  `json:"plastic,omitempty"`
}

// DiscAddedToBagPayload carries the user id and the disc snapshot copy.
type DiscAddedToBagPayload struct {
	UserID string              `json:"user_id"`
	Disc   DiscSnapshotPayload `json:"disc_data"`
}

// DiscRemovedFromBagPayload carries the user id and the disc reference.
type DiscRemovedFromBagPayload struct {
	UserID string `json:"user_id"`
	DiscID string `json:"disc_id"`
}

// NewDiscSnapshotPayload copies a domain snapshot into the wire shape.
func NewDiscSnapshotPayload(disc entities.DiscSnapshot) DiscSnapshotPayload {
	return DiscSnapshotPayload{
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
	}
}

// ToEntity converts the wire shape back into a domain snapshot.
func (p DiscSnapshotPayload) ToEntity() entities.DiscSnapshot {
	return entities.DiscSnapshot{
		ID:           p.ID,
		Name:         p.Name,
		Manufacturer: p.Manufacturer,
		Type:         p.Type,
		Speed:        p.Speed,
		Glide:        p.Glide,
		Turn:         p.Turn,
		Fade:         p.Fade,
		Stability:    p.Stability,
		Plastic:      p.Plastic,
	}
}
