package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/escolarhq/escolar-api/internal/models"
)

// ErrDuplicateEnrollment indicates the student is already on the offering's
// roster.
var ErrDuplicateEnrollment = errors.New("student already enrolled in offering")

// EnrollmentRepository applies the enrollment write sequence atomically.
type EnrollmentRepository interface {
	Enroll(ctx context.Context, studentID, offeringID string, enrolledAt time.Time) (models.GradeRecord, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Enroll appends the student to the offering roster, appends the offering to
// the student's own list, and creates the zero-score grade record — all in
// one transaction. The offering row is locked for the duration, so two
// concurrent enrollments for the same offering serialize and the second sees
// the first one's roster entry. The unique (student, offering) index on
// grade records backstops the check.
func (r *enrollmentRepository) Enroll(ctx context.Context, studentID, offeringID string, enrolledAt time.Time) (models.GradeRecord, error) {
	var record models.GradeRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offering models.Offering
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&offering, "id = ?", offeringID).Error; err != nil {
			return err
		}

		if offering.HasStudent(studentID) {
			return ErrDuplicateEnrollment
		}

		roster := append(offering.EnrolledStudentIDs, studentID)
		if err := tx.Model(&models.Offering{}).
			Where("id = ?", offeringID).
			Update("enrolled_student_ids", roster).Error; err != nil {
			return err
		}

		var profile models.StudentProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&profile, "user_id = ?", studentID).Error; err != nil {
			return err
		}

		if !profile.IsEnrolledIn(offeringID) {
			enrolled := append(profile.EnrolledOfferingIDs, offeringID)
			if err := tx.Model(&models.StudentProfile{}).
				Where("user_id = ?", studentID).
				Update("enrolled_offering_ids", enrolled).Error; err != nil {
				return err
			}
		}

		record = models.GradeRecord{
			ID:         uuid.NewString(),
			StudentID:  studentID,
			OfferingID: offeringID,
			CourseID:   offering.CourseID,
			EnrolledAt: enrolledAt,
		}

		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEnrollment
			}
			return err
		}

		return nil
	})
	if err != nil {
		return models.GradeRecord{}, err
	}

	return record, nil
}
