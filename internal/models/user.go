package models

import "time"

// Role values assigned to an account at registration. The role never changes
// after the account is created.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is the identity record shared by students and teachers.
type User struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName      string    `gorm:"size:255;not null" json:"first_name"`
	LastName       string    `gorm:"size:255;not null" json:"last_name"`
	CURP           string    `gorm:"size:32" json:"curp"`
	Contact        string    `gorm:"size:64" json:"contact"`
	Role           string    `gorm:"size:16;not null" json:"role"`
	CredentialHash string    `gorm:"size:128;not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisplayName returns the name shown to other users, e.g. on an offering card.
func (u User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsTeacher reports whether the account belongs to a teacher.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
