package models

import (
	"time"
)

// User roles understood by the permission checker.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User describes a club member account. Accounts stay locked until the email
// is verified via OTP and an admin (or the university-domain shortcut)
// activates them.
type User struct {
	BaseModel

	StudentID string `gorm:"uniqueIndex;not null" json:"student_id"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Name      string `gorm:"not null" json:"name"`
	Password  string `gorm:"not null" json:"-"`

	ProfilePicture string `json:"profile_picture"`
	Role           string `gorm:"type:varchar(16);default:'student';index" json:"role"`
	Batch          string `gorm:"type:varchar(16)" json:"batch"`

	DepartmentID *string     `gorm:"type:uuid;index" json:"department_id"`
	Department   *Department `json:"department,omitempty"`

	IsVerified bool `gorm:"default:false" json:"is_verified"`
	IsActive   bool `gorm:"default:false;index" json:"is_active"`

	OTPCode          *string    `gorm:"type:varchar(8)" json:"-"`
	OTPCreatedAt     *time.Time `json:"-"`
	OTPAttempts      int        `gorm:"default:0" json:"-"`
	EmailChangeCount int        `gorm:"default:1" json:"-"`
}
