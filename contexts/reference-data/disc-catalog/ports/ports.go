package ports

import (
	"context"

	"dewey/contexts/reference-data/disc-catalog/domain/entities"
)

// DiscRepository is the read-only boundary over catalog discs.
// Absence is reported via found=false, not an error.
type DiscRepository interface {
	ListDiscs(ctx context.Context) ([]entities.Disc, error)
	GetDisc(ctx context.Context, discID string) (entities.Disc, bool, error)
}

// CourseRepository is the read-only boundary over the course list.
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]entities.Course, error)
}
