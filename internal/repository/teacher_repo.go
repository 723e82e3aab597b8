package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/escolarhq/escolar-api/internal/models"
)

// TeacherRepository provides access to teacher profiles.
type TeacherRepository interface {
	GetByID(ctx context.Context, userID string) (models.TeacherProfile, error)
	Create(ctx context.Context, profile *models.TeacherProfile) error
	AppendOffering(ctx context.Context, userID, offeringID string) error
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher profile repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByID(ctx context.Context, userID string) (models.TeacherProfile, error) {
	var profile models.TeacherProfile
	if err := r.db.WithContext(ctx).Preload("User").
		First(&profile, "user_id = ?", userID).Error; err != nil {
		return models.TeacherProfile{}, err
	}

	return profile, nil
}

func (r *teacherRepository) Create(ctx context.Context, profile *models.TeacherProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *teacherRepository) AppendOffering(ctx context.Context, userID, offeringID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.TeacherProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&profile, "user_id = ?", userID).Error; err != nil {
			return err
		}

		for _, id := range profile.ActiveOfferingIDs {
			if id == offeringID {
				return nil
			}
		}

		ids := append(profile.ActiveOfferingIDs, offeringID)

		return tx.Model(&models.TeacherProfile{}).
			Where("user_id = ?", userID).
			Update("active_offering_ids", ids).Error
	})
}
