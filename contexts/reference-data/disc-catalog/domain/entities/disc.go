package entities

import "fmt"

type DiscType string

const (
	DiscTypePutter         DiscType = "putter"
	DiscTypeMidrange       DiscType = "midrange"
	DiscTypeFairwayDriver  DiscType = "fairway_driver"
	DiscTypeDistanceDriver DiscType = "distance_driver"
)

type Stability string

const (
	StabilityOverstable  Stability = "overstable"
	StabilityStable      Stability = "stable"
	StabilityUnderstable Stability = "understable"
)

// Disc is a catalog entry with its flight characteristics. Catalog entries
// are reference data; bags store copies, never references.
type Disc struct {
	ID           string
	Name         string
	Manufacturer string
	Type         DiscType
	Speed        float64
	Glide        float64
	Turn         float64
	Fade         float64
	Stability    Stability
	Plastic      string
}

// FlightNumbers renders the standard speed/glide/turn/fade notation.
func (d Disc) FlightNumbers() string {
	return fmt.Sprintf("%g/%g/%g/%g", d.Speed, d.Glide, d.Turn, d.Fade)
}

// SuitableForBeginner mirrors the catalog guidance rule: slow enough to
// control and not overstable.
func (d Disc) SuitableForBeginner() bool {
	return d.Speed <= 7 && (d.Stability == StabilityStable || d.Stability == StabilityUnderstable)
}
