package dto

import (
	"time"

	"github.com/escolarhq/escolar-api/internal/models"
)

// RegisterRequest creates a new account plus its role-specific profile.
// Identifier is the enrollment number (students) used as the login
// credential; teachers register with their employee reference as well.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Identifier string `json:"identifier" validate:"required,min=4"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Contact    string `json:"contact" validate:"required"`
	CURP       string `json:"curp" validate:"required,len=18"`
	Role       string `json:"role" validate:"required,oneof=student teacher"`

	// Student fields.
	ProgramID string `json:"program_id" validate:"required_if=Role student"`
	TermLevel int    `json:"term_level" validate:"required_if=Role student,omitempty,gte=1,lte=12"`
	TutorName string `json:"tutor_name" validate:"required_if=Role student"`

	// Teacher fields.
	EmployeeRef string `json:"employee_ref" validate:"required_if=Role teacher"`
}

// LoginRequest authenticates with email plus the registered identifier.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Identifier string `json:"identifier" validate:"required"`
}

// UserResponse serializes an identity record.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse carries the session token issued at login or registration.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ClinicalDataRequest replaces the student's self-reported clinical lists.
type ClinicalDataRequest struct {
	Allergies    []string `json:"allergies"`
	Conditions   []string `json:"conditions"`
	Medications  []string `json:"medications"`
	Disabilities []string `json:"disabilities"`
}

// StudentProfileResponse is the student's own profile view.
type StudentProfileResponse struct {
	UserID           string               `json:"user_id"`
	Email            string               `json:"email"`
	Name             string               `json:"name"`
	ProgramID        string               `json:"program_id"`
	TermLevel        int                  `json:"term_level"`
	TutorName        string               `json:"tutor_name"`
	TutorContact     string               `json:"tutor_contact"`
	ClinicalData     ClinicalDataRequest  `json:"clinical_data"`
	MedicalDocuments []DocumentResponse   `json:"medical_documents"`
	EnrolledIn       []string             `json:"enrolled_offering_ids"`
}

// NewUserResponse converts a user model into its DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// NewStudentProfileResponse converts a profile (with preloaded user) into its DTO.
func NewStudentProfileResponse(profile models.StudentProfile) StudentProfileResponse {
	tutor := profile.Tutor.Data()
	clinical := profile.ClinicalData.Data()

	return StudentProfileResponse{
		UserID:       profile.UserID,
		Email:        profile.User.Email,
		Name:         profile.User.DisplayName(),
		ProgramID:    profile.ProgramID,
		TermLevel:    profile.TermLevel,
		TutorName:    tutor.Name,
		TutorContact: tutor.Contact,
		ClinicalData: ClinicalDataRequest{
			Allergies:    clinical.Allergies,
			Conditions:   clinical.Conditions,
			Medications:  clinical.Medications,
			Disabilities: clinical.Disabilities,
		},
		MedicalDocuments: NewDocumentResponseSlice(profile.MedicalDocuments),
		EnrolledIn:       profile.EnrolledOfferingIDs,
	}
}
