package models

// Payment methods accepted for course and event fees.
const (
	PaymentMethodBkash  = "bkash"
	PaymentMethodNagad  = "nagad"
	PaymentMethodRocket = "rocket"
)

// Payment lifecycle states.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment records a course-registration fee. A registration carries at most
// one payment; creating it confirms the registration.
type Payment struct {
	BaseModel

	RegistrationID string              `gorm:"type:uuid;not null;uniqueIndex" json:"registration_id"`
	Registration   *CourseRegistration `json:"registration,omitempty"`

	Amount        float64 `gorm:"not null" json:"amount"`
	Method        string  `gorm:"type:varchar(16);not null" json:"method"`
	Status        string  `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	TransactionID string  `gorm:"type:varchar(64)" json:"transaction_id"`
}
