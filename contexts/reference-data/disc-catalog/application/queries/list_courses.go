package queries

import (
	"context"
	"log/slog"

	application "dewey/contexts/reference-data/disc-catalog/application"
	"dewey/contexts/reference-data/disc-catalog/domain/entities"
	"dewey/contexts/reference-data/disc-catalog/ports"
)

type ListCoursesResult struct {
	Items []entities.Course
}

type ListCoursesUseCase struct {
	Courses ports.CourseRepository
	Logger  *slog.Logger
}

func (u ListCoursesUseCase) Execute(ctx context.Context) (ListCoursesResult, error) {
	logger := application.ResolveLogger(u.Logger)

	items, err := u.Courses.ListCourses(ctx)
	if err != nil {
		logger.Error("list courses failed",
			"event", "catalog_list_courses_failed",
			"module", "reference-data/disc-catalog",
			"layer", "application",
			"error", err.Error(),
		)
		return ListCoursesResult{}, err
	}
	return ListCoursesResult{Items: items}, nil
}
