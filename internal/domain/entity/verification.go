package entity

import "time"

// VerificationResult is the public status of an IMEI. Found == false is the
// not-found variant and carries no other data.
type VerificationResult struct {
	IMEI         string               `json:"imei"`
	Found        bool                 `json:"found"`
	Status       DeviceStatus         `json:"status,omitempty"`
	Registered   bool                 `json:"registered,omitempty"`
	Model        string               `json:"model,omitempty"`
	Brand        string               `json:"brand,omitempty"`
	RegisteredAt *time.Time           `json:"registered_at,omitempty"`
	UpdatedAt    *time.Time           `json:"updated_at,omitempty"`
	Reports      []VerificationReport `json:"reports,omitempty"`
}

// VerificationReport is the public part of a theft report.
type VerificationReport struct {
	Location           string    `json:"location"`
	PoliceReportNumber string    `json:"police_report_number,omitempty"`
	IncidentDate       string    `json:"incident_date"`
	ReportedAt         time.Time `json:"reported_at"`
}

// RegistryStats summarizes the registry for the admin console.
type RegistryStats struct {
	Devices       int64 `json:"devices"`
	ActiveDevices int64 `json:"active_devices"`
	StolenDevices int64 `json:"stolen_devices"`
	TheftReports  int64 `json:"theft_reports"`
}
