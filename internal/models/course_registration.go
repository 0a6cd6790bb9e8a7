package models

// Course registration lifecycle states.
const (
	RegistrationStatusPending   = "pending"
	RegistrationStatusConfirmed = "confirmed"
)

// CourseRegistration ties a student to a course section. The composite unique
// index closes the duplicate-registration race at the database level.
type CourseRegistration struct {
	BaseModel

	StudentID string `gorm:"type:uuid;not null;uniqueIndex:idx_course_reg_student_course" json:"student_id"`
	// The belongsTo hint is required: User also carries a StudentID column
	// (the roll number), so gorm would otherwise guess has-one and put the
	// foreign key on users.
	Student *User `gorm:"belongsTo;foreignKey:StudentID" json:"student,omitempty"`

	CourseID string  `gorm:"type:uuid;not null;uniqueIndex:idx_course_reg_student_course" json:"course_id"`
	Course   *Course `json:"course,omitempty"`

	Section string `gorm:"type:varchar(16)" json:"section"`
	Status  string `gorm:"type:varchar(16);default:'pending';index" json:"status"`
}
