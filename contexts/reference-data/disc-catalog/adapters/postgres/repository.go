package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"dewey/contexts/reference-data/disc-catalog/adapters/memory"
	"dewey/contexts/reference-data/disc-catalog/domain/entities"
	domainerrors "dewey/contexts/reference-data/disc-catalog/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the catalog tables and loads the baseline rows. Seeding
// uses ON CONFLICT DO NOTHING so repeated startups leave existing rows alone.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&discModel{}, &courseModel{}); err != nil {
		return err
	}
	if err := r.seed(ctx); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateSeed) {
			r.logger.Warn("catalog seed skipped",
				"event", "catalog_seed_skipped",
				"module", "reference-data/disc-catalog",
				"layer", "adapter",
			)
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) seed(ctx context.Context) error {
	discs := make([]discModel, 0)
	for _, disc := range memory.SeedDiscs() {
		discs = append(discs, discModelFromEntity(disc))
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "disc_id"}},
			DoNothing: true,
		}).
		Create(&discs)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrDuplicateSeed
		}
		return result.Error
	}

	courses := make([]courseModel, 0)
	for _, course := range memory.SeedCourses() {
		courses = append(courses, courseModel{
			CourseID: course.ID,
			Name:     course.Name,
			Location: course.Location,
		})
	}
	courseResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}},
			DoNothing: true,
		}).
		Create(&courses)
	if courseResult.Error != nil {
		if isUniqueViolation(courseResult.Error) {
			return domainerrors.ErrDuplicateSeed
		}
		return courseResult.Error
	}
	return nil
}

func (r *Repository) ListDiscs(ctx context.Context) ([]entities.Disc, error) {
	var rows []discModel
	if err := r.db.WithContext(ctx).
		Order("disc_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Disc, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetDisc(ctx context.Context, discID string) (entities.Disc, bool, error) {
	var row discModel
	err := r.db.WithContext(ctx).
		Where("disc_id = ?", strings.TrimSpace(discID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Disc{}, false, nil
		}
		return entities.Disc{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListCourses(ctx context.Context) ([]entities.Course, error) {
	var rows []courseModel
	if err := r.db.WithContext(ctx).
		Order("course_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Course, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Course{
			ID:       row.CourseID,
			Name:     row.Name,
			Location: row.Location,
		})
	}
	return items, nil
}

type discModel struct {
	DiscID       string  `gorm:"column:disc_id;primaryKey"`
	Name         string  `gorm:"column:name"`
	Manufacturer string  `gorm:"column:manufacturer"`
	Type         string  `gorm:"column:type"`
	Speed        float64 `gorm:"column:speed"`
	Glide        float64 `gorm:"column:glide"`
	Turn         float64 `gorm:"column:turn"`
	Fade         float64 `gorm:"column:fade"`
	Stability    string  `gorm:"column:stability"`
	Plastic      string  `gorm:"column:plastic"`
}

func (discModel) TableName() string {
	return "catalog_discs"
}

func discModelFromEntity(item entities.Disc) discModel {
	return discModel{
		DiscID:       strings.TrimSpace(item.ID),
		Name:         strings.TrimSpace(item.Name),
		Manufacturer: strings.TrimSpace(item.Manufacturer),
		Type:         string(item.Type),
		Speed:        item.Speed,
		Glide:        item.Glide,
		Turn:         item.Turn,
		Fade:         item.Fade,
		Stability:    string(item.Stability),
		Plastic:      strings.TrimSpace(item.Plastic),
	}
}

func (m discModel) toEntity() entities.Disc {
	return entities.Disc{
		ID:           m.DiscID,
		Name:         m.Name,
		Manufacturer: m.Manufacturer,
		Type:         entities.DiscType(m.Type),
		Speed:        m.Speed,
		Glide:        m.Glide,
		Turn:         m.Turn,
		Fade:         m.Fade,
		Stability:    entities.Stability(m.Stability),
		Plastic:      m.Plastic,
	}
}

type courseModel struct {
	CourseID string `gorm:"column:course_id;primaryKey"`
	Name     string `gorm:"column:name"`
	Location string `gorm:"column:location"`
}

func (courseModel) TableName() string {
	return "catalog_courses"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
