package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/models"
)

// OfferingRepository provides access to course offerings ("groups").
type OfferingRepository interface {
	GetByID(ctx context.Context, id string) (models.Offering, error)
	ListByCourses(ctx context.Context, courseIDs []string, termLevel int) ([]models.Offering, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Offering, error)
	Create(ctx context.Context, offering *models.Offering) error
}

type offeringRepository struct {
	db *gorm.DB
}

// NewOfferingRepository constructs an offering repository.
func NewOfferingRepository(db *gorm.DB) OfferingRepository {
	return &offeringRepository{db: db}
}

func (r *offeringRepository) GetByID(ctx context.Context, id string) (models.Offering, error) {
	var offering models.Offering
	if err := r.db.WithContext(ctx).First(&offering, "id = ?", id).Error; err != nil {
		return models.Offering{}, err
	}

	return offering, nil
}

func (r *offeringRepository) ListByCourses(ctx context.Context, courseIDs []string, termLevel int) ([]models.Offering, error) {
	if len(courseIDs) == 0 {
		return []models.Offering{}, nil
	}

	var offerings []models.Offering
	if err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Where("term_level = ?", termLevel).
		Where("active = ?", true).
		Find(&offerings).Error; err != nil {
		return nil, err
	}

	return offerings, nil
}

func (r *offeringRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Offering, error) {
	var offerings []models.Offering
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at ASC").
		Find(&offerings).Error; err != nil {
		return nil, err
	}

	return offerings, nil
}

func (r *offeringRepository) Create(ctx context.Context, offering *models.Offering) error {
	return r.db.WithContext(ctx).Create(offering).Error
}
