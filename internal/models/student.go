package models

import (
	"time"

	"gorm.io/datatypes"
)

// TutorContact identifies the guardian registered for a student.
type TutorContact struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// ClinicalData groups the self-reported medical lists a student maintains.
type ClinicalData struct {
	Allergies    []string `json:"allergies"`
	Conditions   []string `json:"conditions"`
	Medications  []string `json:"medications"`
	Disabilities []string `json:"disabilities"`
}

// MedicalDocument describes one uploaded medical file. The list on the
// profile is append-only: documents cannot be removed once uploaded.
type MedicalDocument struct {
	Label       string    `json:"label"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UploadedBy  string    `json:"uploaded_by"`
}

// StudentProfile holds the academic and clinical state owned by a student.
type StudentProfile struct {
	UserID              string                                    `gorm:"primaryKey;size:64" json:"user_id"`
	ProgramID           string                                    `gorm:"size:64;not null;index" json:"program_id"`
	TermLevel           int                                       `gorm:"not null" json:"term_level"`
	Tutor               datatypes.JSONType[TutorContact]          `json:"tutor"`
	ClinicalData        datatypes.JSONType[ClinicalData]          `json:"clinical_data"`
	MedicalDocuments    datatypes.JSONSlice[MedicalDocument]      `json:"medical_documents"`
	EnrolledOfferingIDs datatypes.JSONSlice[string]               `json:"enrolled_offering_ids"`
	CreatedAt           time.Time                                 `json:"created_at"`
	UpdatedAt           time.Time                                 `json:"updated_at"`
	User                User                                      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}

// IsEnrolledIn reports whether the student's own offering list already
// contains the given offering.
func (p StudentProfile) IsEnrolledIn(offeringID string) bool {
	for _, id := range p.EnrolledOfferingIDs {
		if id == offeringID {
			return true
		}
	}
	return false
}
