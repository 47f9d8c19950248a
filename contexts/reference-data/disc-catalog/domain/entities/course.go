package entities

// Course is a playable course in the reference set.
type Course struct {
	ID       string
	Name     string
	Location string
}
