package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a club event. Managers share the creator's edit rights, and the
// audience can be narrowed to departments and per-department batch lists.
type Event struct {
	BaseModel

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	CreatorID string `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   *User  `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Managers  []User `gorm:"many2many:event_managers;" json:"managers,omitempty"`

	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`
	Venue     string    `json:"venue"`

	IsPaid              bool    `gorm:"default:false" json:"is_paid"`
	FeeAmount           float64 `gorm:"default:0" json:"fee_amount"`
	PaymentInstructions string  `gorm:"type:text" json:"payment_instructions"`

	DepartmentsAllowed []Department `gorm:"many2many:event_departments;" json:"departments_allowed,omitempty"`
	// BatchesAllowed maps department code to the batches admitted from it.
	BatchesAllowed datatypes.JSON `json:"batches_allowed"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
}
