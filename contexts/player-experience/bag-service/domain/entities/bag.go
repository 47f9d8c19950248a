package entities

import (
	"fmt"
	"time"
)

// DiscSnapshot is a copy of the catalog disc at the time it was added.
// Catalog changes never retroactively alter a bag.
type DiscSnapshot struct {
	ID           string
	Name         string
	Manufacturer string
	Type         string
	Speed        float64
	Glide        float64
	Turn         float64
	Fade         float64
	Stability    string
	Plastic      string
}

// FlightNumbers renders the standard speed/glide/turn/fade notation.
func (d DiscSnapshot) FlightNumbers() string {
	return fmt.Sprintf("%g/%g/%g/%g", d.Speed, d.Glide, d.Turn, d.Fade)
}

// Bag is the read-model document for one player. It is rebuilt solely from
// events and owned exclusively by the projector.
type Bag struct {
	UserID    string
	Discs     []DiscSnapshot
	UpdatedAt time.Time
}

// EmptyBag is the canonical shape for a player with no applied events yet.
// Query callers treat an absent document as this value, not as an error.
func EmptyBag(userID string) Bag {
	return Bag{
		UserID: userID,
		Discs:  []DiscSnapshot{},
	}
}
