package model

import "time"

// Profile is the profiles row, keyed by the identity provider's user id.
type Profile struct {
	OwnerID     string    `gorm:"column:user_id;primaryKey;size:64" json:"user_id"`
	FullName    string    `gorm:"column:full_name;size:160" json:"full_name"`
	PhoneNumber *string   `gorm:"column:phone_number;size:20" json:"phone_number,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}
