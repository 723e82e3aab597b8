package models

import "time"

// Score field names accepted by the grading workflow's partial update.
const (
	ScoreField1 = "score1"
	ScoreField2 = "score2"
	ScoreField3 = "score3"
)

// GradeRecord ties one student to one offering and carries the three partial
// scores. Exactly one record exists per (student, offering) pair; the unique
// index makes that pairing the real identity of the record.
type GradeRecord struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	StudentID  string    `gorm:"size:64;not null;uniqueIndex:idx_grade_enrollment,priority:1" json:"student_id"`
	OfferingID string    `gorm:"size:64;not null;uniqueIndex:idx_grade_enrollment,priority:2" json:"offering_id"`
	CourseID   string    `gorm:"size:64;not null;index" json:"course_id"`
	Score1     float64   `gorm:"not null;default:0" json:"score1"`
	Score2     float64   `gorm:"not null;default:0" json:"score2"`
	Score3     float64   `gorm:"not null;default:0" json:"score3"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Average returns the arithmetic mean of the non-zero scores. A zero score is
// treated as "not yet graded", not as an earned zero, so it does not drag the
// mean down; with no non-zero scores the average is 0, never NaN. An earned
// zero is therefore indistinguishable from an ungraded partial — a known
// product ambiguity, see DESIGN.md.
func (g GradeRecord) Average() float64 {
	var sum float64
	var count int
	for _, score := range []float64{g.Score1, g.Score2, g.Score3} {
		if score != 0 {
			sum += score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// IsValidScoreField reports whether the grading workflow may update the field.
func IsValidScoreField(field string) bool {
	switch field {
	case ScoreField1, ScoreField2, ScoreField3:
		return true
	default:
		return false
	}
}
