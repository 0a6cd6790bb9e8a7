package models

// Event registration lifecycle states.
const (
	EventRegStatusPendingPayment   = "pending_payment"
	EventRegStatusPaymentSubmitted = "payment_submitted"
	EventRegStatusApproved         = "approved"
	EventRegStatusRejected         = "rejected"
)

// EventRegistration records a member signing up for an event. Paid events
// start at pending_payment; free events are approved immediately.
type EventRegistration struct {
	BaseModel

	EventID string `gorm:"type:uuid;not null;uniqueIndex:idx_event_reg_event_user" json:"event_id"`
	Event   *Event `json:"event,omitempty"`

	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_event_reg_event_user" json:"user_id"`
	User   *User  `json:"user,omitempty"`

	DepartmentID *string     `gorm:"type:uuid" json:"department_id"`
	Department   *Department `json:"department,omitempty"`
	Batch        string      `gorm:"type:varchar(16)" json:"batch"`

	Status string `gorm:"type:varchar(24);default:'pending_payment';index" json:"status"`
}
