package models

import (
	"time"

	"gorm.io/datatypes"
)

// TeacherProfile holds the employment record for a teacher account.
// Only the active offering list changes after creation; offering creation
// appends to it.
type TeacherProfile struct {
	UserID            string                      `gorm:"primaryKey;size:64" json:"user_id"`
	EmployeeRef       string                      `gorm:"size:32;not null" json:"employee_ref"`
	ActiveOfferingIDs datatypes.JSONSlice[string] `json:"active_offering_ids"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
	User              User                        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}
