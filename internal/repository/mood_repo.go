package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/escolarhq/escolar-api/internal/models"
)

// MoodRepository provides access to the per-day mood entries of a student.
type MoodRepository interface {
	Upsert(ctx context.Context, entry *models.MoodEntry) error
	Get(ctx context.Context, studentID, dateKey string) (models.MoodEntry, error)
	ListSince(ctx context.Context, studentID, sinceDateKey string) ([]models.MoodEntry, error)
}

type moodRepository struct {
	db *gorm.DB
}

// NewMoodRepository constructs a mood entry repository.
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &moodRepository{db: db}
}

// Upsert writes the entry for (student, date), replacing any entry already
// recorded that day.
func (r *moodRepository) Upsert(ctx context.Context, entry *models.MoodEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"mood", "recorded_at"}),
	}).Create(entry).Error
}

func (r *moodRepository) Get(ctx context.Context, studentID, dateKey string) (models.MoodEntry, error) {
	var entry models.MoodEntry
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("date_key = ?", dateKey).
		First(&entry).Error; err != nil {
		return models.MoodEntry{}, err
	}

	return entry, nil
}

// ListSince returns all entries whose calendar day is on or after the given
// day. Date keys sort lexicographically in calendar order.
func (r *moodRepository) ListSince(ctx context.Context, studentID, sinceDateKey string) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("date_key >= ?", sinceDateKey).
		Order("date_key ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
