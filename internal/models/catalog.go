package models

import "time"

// Program is an academic program students register into. Reference data,
// read-only to the workflows in this service.
type Program struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Course is a subject taught at a given term level of a program.
type Course struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	ProgramID string    `gorm:"size:64;not null;index" json:"program_id"`
	TermLevel int       `gorm:"not null;index" json:"term_level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
