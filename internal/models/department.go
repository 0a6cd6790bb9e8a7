package models

// Department groups users, courses, and routines by academic department.
type Department struct {
	BaseModel

	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Code     string `gorm:"uniqueIndex;not null;type:varchar(16)" json:"code"`
	IsActive bool   `gorm:"default:true;index" json:"is_active"`
}
