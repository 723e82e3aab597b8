package dto

import "github.com/escolarhq/escolar-api/internal/models"

// OfferingCreateRequest describes a new offering a teacher opens for a course.
type OfferingCreateRequest struct {
	CourseID  string   `json:"course_id" validate:"required"`
	Name      string   `json:"name" validate:"required,min=2"`
	TermCycle string   `json:"term_cycle" validate:"required"`
	Days      []string `json:"days" validate:"required,min=1,dive,oneof=monday tuesday wednesday thursday friday saturday"`
	StartTime string   `json:"start_time" validate:"required"`
	EndTime   string   `json:"end_time" validate:"required"`
}

// TeacherOfferingResponse is one offering from the teaching side.
type TeacherOfferingResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	CourseID      string       `json:"course_id"`
	CourseName    string       `json:"course_name"`
	TermCycle     string       `json:"term_cycle"`
	TermLevel     int          `json:"term_level"`
	Schedule      ScheduleView `json:"schedule"`
	EnrolledCount int          `json:"enrolled_count"`
	Active        bool         `json:"active"`
}

// NewTeacherOfferingResponse converts an offering into its teaching-side DTO.
func NewTeacherOfferingResponse(offering models.Offering, courseName string) TeacherOfferingResponse {
	schedule := offering.Schedule.Data()

	return TeacherOfferingResponse{
		ID:         offering.ID,
		Name:       offering.Name,
		CourseID:   offering.CourseID,
		CourseName: courseName,
		TermCycle:  offering.TermCycle,
		TermLevel:  offering.TermLevel,
		Schedule: ScheduleView{
			Days:      schedule.Days,
			StartTime: schedule.StartTime,
			EndTime:   schedule.EndTime,
		},
		EnrolledCount: len(offering.EnrolledStudentIDs),
		Active:        offering.Active,
	}
}

// ProgramResponse serializes one academic program.
type ProgramResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewProgramResponseSlice converts programs into DTOs.
func NewProgramResponseSlice(programs []models.Program) []ProgramResponse {
	responses := make([]ProgramResponse, 0, len(programs))
	for _, program := range programs {
		responses = append(responses, ProgramResponse{ID: program.ID, Name: program.Name})
	}

	return responses
}
