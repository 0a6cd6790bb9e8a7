package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification categories.
const (
	NotificationAnnouncement  = "announcement"
	NotificationCourseUpdate  = "course_update"
	NotificationRoutineChange = "routine_change"
)

// Notification represents an in-app notification for a user. Rows are the
// source of truth; the realtime fan-out is best effort.
type Notification struct {
	BaseModel

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	Type     string         `gorm:"type:varchar(32);not null" json:"type"`
	Title    string         `gorm:"type:varchar(255);not null" json:"title"`
	Message  string         `gorm:"type:text" json:"message"`
	Metadata datatypes.JSON `json:"metadata"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`
}
