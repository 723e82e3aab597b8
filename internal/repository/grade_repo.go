package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/models"
)

// GradeRepository provides access to grade records.
type GradeRepository interface {
	ListByOffering(ctx context.Context, offeringID string) ([]models.GradeRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.GradeRecord, error)
	GetByEnrollment(ctx context.Context, studentID, offeringID, courseID string) (models.GradeRecord, error)
	UpdateScore(ctx context.Context, id, field string, value float64) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository constructs a grade record repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) ListByOffering(ctx context.Context, offeringID string) ([]models.GradeRecord, error) {
	var records []models.GradeRecord
	if err := r.db.WithContext(ctx).
		Where("offering_id = ?", offeringID).
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *gradeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.GradeRecord, error) {
	var records []models.GradeRecord
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("enrolled_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// GetByEnrollment locates the record by the (student, offering, course)
// compound filter the grading workflow addresses records with. The unique
// (student, offering) index guarantees at most one match.
func (r *gradeRepository) GetByEnrollment(ctx context.Context, studentID, offeringID, courseID string) (models.GradeRecord, error) {
	var record models.GradeRecord
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("offering_id = ?", offeringID).
		Where("course_id = ?", courseID).
		First(&record).Error; err != nil {
		return models.GradeRecord{}, err
	}

	return record, nil
}

// UpdateScore applies a partial update touching only the named score column.
func (r *gradeRepository) UpdateScore(ctx context.Context, id, field string, value float64) error {
	result := r.db.WithContext(ctx).Model(&models.GradeRecord{}).
		Where("id = ?", id).
		Update(field, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
