package models

import (
	"gorm.io/datatypes"
)

// GuestUser is an ephemeral account invited to specific events. Guests carry
// no role; their token scopes access to the listed event IDs, and the
// maintenance sweep removes them once every listed event has ended.
type GuestUser struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Name     string `gorm:"not null" json:"name"`
	Password string `gorm:"not null" json:"-"`

	// EventIDs is a JSON array of event UUIDs the guest may access.
	EventIDs datatypes.JSON `json:"event_ids"`
}
