package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/models"
)

// CatalogRepository provides read access to the academic reference data
// (programs and courses). Writes exist only for seeding.
type CatalogRepository interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id string) (models.Program, error)
	GetCourse(ctx context.Context, id string) (models.Course, error)
	ListCourses(ctx context.Context, programID string, termLevel int) ([]models.Course, error)
	CreateProgram(ctx context.Context, program *models.Program) error
	CreateCourse(ctx context.Context, course *models.Course) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository constructs a catalog repository.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListPrograms(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&programs).Error; err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *catalogRepository) GetProgram(ctx context.Context, id string) (models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).First(&program, "id = ?", id).Error; err != nil {
		return models.Program{}, err
	}

	return program, nil
}

func (r *catalogRepository) GetCourse(ctx context.Context, id string) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *catalogRepository) ListCourses(ctx context.Context, programID string, termLevel int) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Where("term_level = ?", termLevel).
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *catalogRepository) CreateProgram(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *catalogRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}
