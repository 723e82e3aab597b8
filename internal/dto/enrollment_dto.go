package dto

import (
	"github.com/escolarhq/escolar-api/internal/models"
)

// EnrollRequest identifies the offering a student wants to join.
type EnrollRequest struct {
	OfferingID string `json:"offering_id" validate:"required"`
}

// ScheduleView serializes the weekly slots of an offering.
type ScheduleView struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// OfferingView is one offering as seen from the student catalog.
type OfferingView struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	CourseID      string       `json:"course_id"`
	CourseName    string       `json:"course_name"`
	TermCycle     string       `json:"term_cycle"`
	TermLevel     int          `json:"term_level"`
	Schedule      ScheduleView `json:"schedule"`
	TeacherName   string       `json:"teacher_name"`
	EnrolledCount int          `json:"enrolled_count"`
}

// OfferingCatalogResponse partitions the matching offerings into the ones the
// student can still join and the ones they are already part of.
type OfferingCatalogResponse struct {
	Available []OfferingView `json:"available"`
	Enrolled  []OfferingView `json:"enrolled"`
}

// EnrollmentResponse confirms a completed enrollment.
type EnrollmentResponse struct {
	OfferingID    string `json:"offering_id"`
	OfferingName  string `json:"offering_name"`
	GradeRecordID string `json:"grade_record_id"`
	EnrolledAt    string `json:"enrolled_at"`
}

// NewOfferingView builds the catalog view of an offering. The course and
// teacher names are resolved by the caller.
func NewOfferingView(offering models.Offering, courseName, teacherName string) OfferingView {
	schedule := offering.Schedule.Data()

	return OfferingView{
		ID:            offering.ID,
		Name:          offering.Name,
		CourseID:      offering.CourseID,
		CourseName:    courseName,
		TermCycle:     offering.TermCycle,
		TermLevel:     offering.TermLevel,
		Schedule: ScheduleView{
			Days:      schedule.Days,
			StartTime: schedule.StartTime,
			EndTime:   schedule.EndTime,
		},
		TeacherName:   teacherName,
		EnrolledCount: len(offering.EnrolledStudentIDs),
	}
}
