package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/escolarhq/escolar-api/internal/models"
)

// StudentRepository provides access to student profiles.
type StudentRepository interface {
	GetByID(ctx context.Context, userID string) (models.StudentProfile, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]models.StudentProfile, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
	UpdateClinicalData(ctx context.Context, userID string, data models.ClinicalData) error
	AppendDocument(ctx context.Context, userID string, document models.MedicalDocument) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student profile repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.StudentProfile{}).Preload("User")
}

func (r *studentRepository) GetByID(ctx context.Context, userID string) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.baseQuery(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *studentRepository) ListByIDs(ctx context.Context, userIDs []string) ([]models.StudentProfile, error) {
	if len(userIDs) == 0 {
		return []models.StudentProfile{}, nil
	}

	var profiles []models.StudentProfile
	if err := r.baseQuery(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *studentRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *studentRepository) UpdateClinicalData(ctx context.Context, userID string, data models.ClinicalData) error {
	result := r.db.WithContext(ctx).Model(&models.StudentProfile{}).
		Where("user_id = ?", userID).
		Update("clinical_data", datatypes.NewJSONType(data))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AppendDocument adds a document to the profile's append-only list. The
// read-modify-write runs inside a transaction with the profile row locked so
// concurrent uploads cannot drop each other's entries.
func (r *studentRepository) AppendDocument(ctx context.Context, userID string, document models.MedicalDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.StudentProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&profile, "user_id = ?", userID).Error; err != nil {
			return err
		}

		documents := append(profile.MedicalDocuments, document)

		return tx.Model(&models.StudentProfile{}).
			Where("user_id = ?", userID).
			Update("medical_documents", documents).Error
	})
}
