package models

import "time"

// Event payment verification outcomes.
const (
	EventPaymentPending  = "pending"
	EventPaymentApproved = "approved"
	EventPaymentRejected = "rejected"
)

// EventPayment holds a submitted fee proof for an event registration,
// reviewed by an event manager.
type EventPayment struct {
	BaseModel

	RegistrationID string             `gorm:"type:uuid;not null;uniqueIndex" json:"registration_id"`
	Registration   *EventRegistration `json:"registration,omitempty"`

	Amount     float64 `gorm:"not null" json:"amount"`
	Method     string  `gorm:"type:varchar(16);not null" json:"method"`
	TrxID      string  `gorm:"type:varchar(64)" json:"trx_id"`
	Screenshot string  `json:"screenshot"`

	VerificationStatus string     `gorm:"type:varchar(16);default:'pending';index" json:"verification_status"`
	VerifiedByID       *string    `gorm:"type:uuid" json:"verified_by_id"`
	VerifiedBy         *User      `gorm:"foreignKey:VerifiedByID" json:"verified_by,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at"`
}
