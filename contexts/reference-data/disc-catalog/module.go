package disccatalog

import (
	"log/slog"

	httpadapter "dewey/contexts/reference-data/disc-catalog/adapters/http"
	"dewey/contexts/reference-data/disc-catalog/adapters/memory"
	"dewey/contexts/reference-data/disc-catalog/application/queries"
	"dewey/contexts/reference-data/disc-catalog/ports"
)

// Module is the disc-catalog composition root. The catalog is read-only at
// runtime; rows enter through the migration seed.
type Module struct {
	Handler httpadapter.Handler
	Discs   ports.DiscRepository
	Store   *memory.Store
}

type Dependencies struct {
	Discs   ports.DiscRepository
	Courses ports.CourseRepository
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			ListDiscs:   queries.ListDiscsUseCase{Discs: deps.Discs, Logger: deps.Logger},
			GetDisc:     queries.GetDiscUseCase{Discs: deps.Discs, Logger: deps.Logger},
			ListCourses: queries.ListCoursesUseCase{Courses: deps.Courses, Logger: deps.Logger},
			Logger:      deps.Logger,
		},
		Discs: deps.Discs,
	}
}

// NewInMemoryModule builds a module backed by the seeded in-memory store.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Discs:   store,
		Courses: store,
		Logger:  logger,
	})
	module.Store = store
	return module
}
