package models

import (
	"gorm.io/datatypes"
)

// Resource list fields a course resource operation may target.
const (
	ResourceFieldMidTheory      = "mid_theory_resources"
	ResourceFieldMidSolves      = "mid_previous_solves"
	ResourceFieldFinalResources = "final_resources"
	ResourceFieldFinalSolves    = "final_previous_solves"
)

// Course holds catalog metadata plus four URL lists of shared study resources.
// The lists are stored as JSON string arrays and mutated only through the
// dedicated resource operations, never by a plain course update.
type Course struct {
	BaseModel

	CourseCode string `gorm:"uniqueIndex;not null;type:varchar(32)" json:"course_code"`
	Title      string `gorm:"not null" json:"title"`
	CreditHour int    `gorm:"default:0" json:"credit_hour"`

	DepartmentID string      `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department `json:"department,omitempty"`

	MidTheoryResources  datatypes.JSON `json:"mid_theory_resources"`
	MidPreviousSolves   datatypes.JSON `json:"mid_previous_solves"`
	FinalResources      datatypes.JSON `json:"final_resources"`
	FinalPreviousSolves datatypes.JSON `json:"final_previous_solves"`
}
