package models

import (
	"time"

	"gorm.io/datatypes"
)

// Schedule defines the weekly slots an offering meets in.
type Schedule struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// Offering is a scheduled instance of a course taught by one teacher in one
// term cycle. Created by a teacher; the enrollment workflow appends to the
// roster. Offerings are never deleted.
type Offering struct {
	ID                 string                        `gorm:"primaryKey;size:64" json:"id"`
	CourseID           string                        `gorm:"size:64;not null;index" json:"course_id"`
	TeacherID          string                        `gorm:"size:64;not null;index" json:"teacher_id"`
	Name               string                        `gorm:"size:255;not null" json:"name"`
	TermCycle          string                        `gorm:"size:32;not null" json:"term_cycle"`
	TermLevel          int                           `gorm:"not null;index" json:"term_level"`
	Schedule           datatypes.JSONType[Schedule]  `json:"schedule"`
	EnrolledStudentIDs datatypes.JSONSlice[string]   `json:"enrolled_student_ids"`
	Active             bool                          `gorm:"not null;default:true" json:"active"`
	CreatedAt          time.Time                     `json:"created_at"`
	UpdatedAt          time.Time                     `json:"updated_at"`
}

// HasStudent reports whether the student already appears on the roster.
func (o Offering) HasStudent(studentID string) bool {
	for _, id := range o.EnrolledStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
