package model

import "time"

// DeviceRegistration is the phone_registrations row. The primary key on imei is
// the uniqueness guarantee for registrations.
type DeviceRegistration struct {
	IMEI         string    `gorm:"column:imei_number;primaryKey;size:15" json:"imei_number"`
	OwnerID      string    `gorm:"column:user_id;size:64;not null;index:idx_phone_registrations_user_created,priority:1" json:"user_id"`
	DeviceModel  string    `gorm:"column:device_model;size:120;not null" json:"device_model"`
	DeviceBrand  *string   `gorm:"column:device_brand;size:120" json:"device_brand,omitempty"`
	PhoneNumber  *string   `gorm:"column:phone_number;size:20" json:"phone_number,omitempty"`
	Status       string    `gorm:"column:status;size:16;not null;index" json:"status"`
	RegisteredAt time.Time `gorm:"column:registration_date;not null;index:idx_phone_registrations_user_created,priority:2,sort:desc" json:"registration_date"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DeviceRegistration) TableName() string {
	return "phone_registrations"
}

// AdminDeviceRow is a registration joined with the owner's profile name.
type AdminDeviceRow struct {
	DeviceRegistration
	OwnerName *string `gorm:"column:owner_name"`
}
