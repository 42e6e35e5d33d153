package entity

import "time"

// DeviceStatus is the registry state of a device.
type DeviceStatus string

const (
	DeviceStatusActive DeviceStatus = "active"
	DeviceStatusStolen DeviceStatus = "stolen"
)

// Valid reports whether s is a known status.
func (s DeviceStatus) Valid() bool {
	return s == DeviceStatusActive || s == DeviceStatusStolen
}

// CanTransitionTo reports whether a registration in status s may move to next.
// The only transition is active -> stolen; staying put is always allowed.
func (s DeviceStatus) CanTransitionTo(next DeviceStatus) bool {
	if s == next {
		return true
	}
	return s == DeviceStatusActive && next == DeviceStatusStolen
}

// DeviceRegistration binds an IMEI to its owner.
type DeviceRegistration struct {
	IMEI         string       `json:"imei"`
	OwnerID      string       `json:"owner_id"`
	Model        string       `json:"model"`
	Brand        string       `json:"brand,omitempty"`
	PhoneNumber  string       `json:"phone_number,omitempty"`
	Status       DeviceStatus `json:"status"`
	RegisteredAt time.Time    `json:"registered_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// AdminDevice is a registration as shown on the admin console.
type AdminDevice struct {
	DeviceRegistration
	OwnerName string `json:"owner_name"`
}

// AdminDeviceFilter narrows the admin device listing.
type AdminDeviceFilter struct {
	PaginationParams
	Status DeviceStatus `query:"status"`
	Search string       `query:"q"`
}
