package model

import (
	"time"

	"github.com/google/uuid"
)

// TheftReport is the theft_reports row. Rows are never updated or deleted.
type TheftReport struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CaseNumber         string    `gorm:"column:case_number;size:20;not null;uniqueIndex" json:"case_number"`
	IMEI               string    `gorm:"column:imei_number;size:15;not null;index:idx_theft_reports_imei_created,priority:1" json:"imei_number"`
	ReporterID         *string   `gorm:"column:reporter_id;size:64;index" json:"reporter_id,omitempty"`
	IncidentType       string    `gorm:"column:incident_type;size:32;not null" json:"incident_type"`
	IncidentDate       time.Time `gorm:"column:incident_date;type:date;not null" json:"incident_date"`
	IncidentTime       *string   `gorm:"column:incident_time;size:8" json:"incident_time,omitempty"`
	Location           string    `gorm:"column:location;not null" json:"location"`
	Description        string    `gorm:"column:description;type:text;not null" json:"description"`
	PoliceReportNumber *string   `gorm:"column:police_report_number;size:64" json:"police_report_number,omitempty"`
	ReporterName       *string   `gorm:"column:reporter_name;size:120" json:"reporter_name,omitempty"`
	ReporterEmail      *string   `gorm:"column:reporter_email;size:254" json:"reporter_email,omitempty"`
	ReporterPhone      *string   `gorm:"column:reporter_phone;size:20" json:"reporter_phone,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_theft_reports_imei_created,priority:2,sort:desc" json:"created_at"`
}

// TableName specifies the table name for GORM
func (TheftReport) TableName() string {
	return "theft_reports"
}
