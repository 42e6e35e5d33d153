package entity

import "time"

// DateLayout is the format of incident dates.
const DateLayout = "2006-01-02"

// IncidentType classifies a theft report.
type IncidentType string

const (
	IncidentTheft    IncidentType = "theft"
	IncidentRobbery  IncidentType = "robbery"
	IncidentBurglary IncidentType = "burglary"
	IncidentLost     IncidentType = "lost"
	IncidentOther    IncidentType = "other"
)

// TheftReport is an immutable incident record for an IMEI.
type TheftReport struct {
	ID                 string       `json:"id"`
	CaseNumber         string       `json:"case_number"`
	IMEI               string       `json:"imei"`
	ReporterID         *string      `json:"reporter_id,omitempty"`
	IncidentType       IncidentType `json:"incident_type"`
	IncidentDate       string       `json:"incident_date"`
	IncidentTime       string       `json:"incident_time,omitempty"`
	Location           string       `json:"location"`
	Description        string       `json:"description"`
	PoliceReportNumber string       `json:"police_report_number,omitempty"`
	Reporter           Reporter     `json:"reporter"`
	CreatedAt          time.Time    `json:"created_at"`
}

// Reporter is the contact left by whoever filed a report.
type Reporter struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// AdminReportFilter narrows the admin report listing.
type AdminReportFilter struct {
	PaginationParams
	Search string `query:"q"`
}
