package entity

import "time"

// Profile holds the contact details of a user.
type Profile struct {
	OwnerID     string    `json:"owner_id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
