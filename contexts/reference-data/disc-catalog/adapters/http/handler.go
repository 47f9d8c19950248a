package httpadapter

import (
	"context"
	"log/slog"

	"dewey/contexts/reference-data/disc-catalog/application/queries"
	"dewey/contexts/reference-data/disc-catalog/domain/entities"
	httptransport "dewey/contexts/reference-data/disc-catalog/transport/http"
)

type Handler struct {
	ListDiscs   queries.ListDiscsUseCase
	GetDisc     queries.GetDiscUseCase
	ListCourses queries.ListCoursesUseCase
	Logger      *slog.Logger
}

// ListDiscsHandler godoc
// @Summary List catalog discs
// @Tags disc-catalog
// @Produce json
// @Success 200 {object} httptransport.DiscListResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /discs [get]
func (h Handler) ListDiscsHandler(ctx context.Context) (httptransport.DiscListResponse, error) {
	result, err := h.ListDiscs.Execute(ctx)
	if err != nil {
		return httptransport.DiscListResponse{}, err
	}
	items := mapDiscs(result.Items)
	return httptransport.DiscListResponse{Items: items, Count: len(items)}, nil
}

// GetDiscHandler godoc
// @Summary Fetch a catalog disc
// @Tags disc-catalog
// @Produce json
// @Param disc_id path string true "Disc id"
// @Success 200 {object} httptransport.DiscDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /discs/{disc_id} [get]
func (h Handler) GetDiscHandler(ctx context.Context, discID string) (httptransport.DiscDTO, error) {
	result, err := h.GetDisc.Execute(ctx, queries.GetDiscQuery{DiscID: discID})
	if err != nil {
		return httptransport.DiscDTO{}, err
	}
	return mapDisc(result.Disc), nil
}

// ListCoursesHandler godoc
// @Summary List courses
// @Tags disc-catalog
// @Produce json
// @Success 200 {object} httptransport.CourseListResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /courses [get]
func (h Handler) ListCoursesHandler(ctx context.Context) (httptransport.CourseListResponse, error) {
	result, err := h.ListCourses.Execute(ctx)
	if err != nil {
		return httptransport.CourseListResponse{}, err
	}

	items := make([]httptransport.CourseDTO, 0, len(result.Items))
	for _, course := range result.Items {
		items = append(items, httptransport.CourseDTO{
			ID:       course.ID,
			Name:     course.Name,
			Location: course.Location,
		})
	}
	return httptransport.CourseListResponse{Items: items, Count: len(items)}, nil
}

func mapDiscs(discs []entities.Disc) []httptransport.DiscDTO {
	items := make([]httptransport.DiscDTO, 0, len(discs))
	for _, disc := range discs {
		items = append(items, mapDisc(disc))
	}
	return items
}

func mapDisc(disc entities.Disc) httptransport.DiscDTO {
	return httptransport.DiscDTO{
		ID:            disc.ID,
		Name:          disc.Name,
		Manufacturer:  disc.Manufacturer,
		Type:          string(disc.Type),
		Speed:         disc.Speed,
		Glide:         disc.Glide,
		Turn:          disc.Turn,
		Fade:          disc.Fade,
		Stability:     string(disc.Stability),
		Plastic:       disc.Plastic,
		FlightNumbers: disc.FlightNumbers(),
		BeginnerSafe:  disc.SuitableForBeginner(),
	}
}
