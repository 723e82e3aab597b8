package models

import "time"

// Mood categories a student may self-report.
const (
	MoodGood = "good"
	MoodFair = "fair"
	MoodPoor = "poor"
)

// MoodDateLayout is the calendar key used to identify one entry per day.
const MoodDateLayout = "2006-01-02"

// MoodEntry is a one-per-day well-being self report. The (student, date)
// primary key is what enforces the at-most-one-entry-per-day invariant:
// re-recording on the same day overwrites instead of appending.
type MoodEntry struct {
	StudentID  string    `gorm:"primaryKey;size:64" json:"student_id"`
	DateKey    string    `gorm:"primaryKey;size:10" json:"date_key"`
	Mood       string    `gorm:"size:8;not null" json:"mood"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`
}

// IsValidMood reports whether the value is one of the accepted categories.
func IsValidMood(mood string) bool {
	switch mood {
	case MoodGood, MoodFair, MoodPoor:
		return true
	default:
		return false
	}
}
