package dto

import (
	"time"

	"github.com/escolarhq/escolar-api/internal/models"
)

// ScoreUpdateRequest applies a single-field grade change.
type ScoreUpdateRequest struct {
	StudentID  string  `json:"student_id" validate:"required"`
	OfferingID string  `json:"offering_id" validate:"required"`
	CourseID   string  `json:"course_id" validate:"required"`
	Field      string  `json:"field" validate:"required,oneof=score1 score2 score3"`
	Value      float64 `json:"value"`
}

// RosterEntry joins one enrolled student with their grade record.
type RosterEntry struct {
	StudentID  string    `json:"student_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	RecordID   string    `json:"record_id"`
	Score1     float64   `json:"score1"`
	Score2     float64   `json:"score2"`
	Score3     float64   `json:"score3"`
	Average    float64   `json:"average"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// RosterResponse is the grading view of one offering.
type RosterResponse struct {
	OfferingID   string        `json:"offering_id"`
	OfferingName string        `json:"offering_name"`
	CourseID     string        `json:"course_id"`
	TermCycle    string        `json:"term_cycle"`
	Entries      []RosterEntry `json:"entries"`
}

// GradeRecordResponse serializes a grade record after an update.
type GradeRecordResponse struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	OfferingID string    `json:"offering_id"`
	CourseID   string    `json:"course_id"`
	Score1     float64   `json:"score1"`
	Score2     float64   `json:"score2"`
	Score3     float64   `json:"score3"`
	Average    float64   `json:"average"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// NewGradeRecordResponse converts a grade record into its DTO.
func NewGradeRecordResponse(record models.GradeRecord) GradeRecordResponse {
	return GradeRecordResponse{
		ID:         record.ID,
		StudentID:  record.StudentID,
		OfferingID: record.OfferingID,
		CourseID:   record.CourseID,
		Score1:     record.Score1,
		Score2:     record.Score2,
		Score3:     record.Score3,
		Average:    record.Average(),
		EnrolledAt: record.EnrolledAt,
	}
}
