package models

// Stats is a singleton row of site-wide counters. Counters are bumped with
// single-row UPDATE expressions so concurrent writers never lose increments.
type Stats struct {
	BaseModel

	TotalUsers    int64 `gorm:"default:0" json:"total_users"`
	VerifiedUsers int64 `gorm:"default:0" json:"verified_users"`
	Teachers      int64 `gorm:"default:0" json:"teachers"`
	Students      int64 `gorm:"default:0" json:"students"`
	Departments   int64 `gorm:"default:0" json:"departments"`
}

// TableName pins the singleton to a short table name.
func (Stats) TableName() string { return "stats" }
