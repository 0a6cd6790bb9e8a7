package models

// Routine is one timetable slot. A teacher, a room, and a course section can
// each occupy a given (day, period) at most once.
type Routine struct {
	BaseModel

	CourseID string  `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   *Course `json:"course,omitempty"`

	TeacherID string `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher   *User  `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`

	DepartmentID string      `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department `json:"department,omitempty"`

	Day        string `gorm:"type:varchar(16);not null;index" json:"day"`
	Period     int    `gorm:"not null" json:"period"`
	RoomNumber string `gorm:"type:varchar(32);not null" json:"room_number"`
	Section    string `gorm:"type:varchar(16);not null" json:"section"`
}
