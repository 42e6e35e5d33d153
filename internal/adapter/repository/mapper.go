package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	"github.com/smartrogo/safephoneng/internal/domain/model"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isDuplicateKey reports whether err comes from a unique constraint.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// likePattern builds a case-insensitive LIKE pattern with wildcards escaped.
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func deviceModelToEntity(m *model.DeviceRegistration) *entity.DeviceRegistration {
	if m == nil {
		return nil
	}
	return &entity.DeviceRegistration{
		IMEI:         m.IMEI,
		OwnerID:      m.OwnerID,
		Model:        m.DeviceModel,
		Brand:        deref(m.DeviceBrand),
		PhoneNumber:  deref(m.PhoneNumber),
		Status:       entity.DeviceStatus(m.Status),
		RegisteredAt: m.RegisteredAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func deviceEntityToModel(e *entity.DeviceRegistration) *model.DeviceRegistration {
	return &model.DeviceRegistration{
		IMEI:         e.IMEI,
		OwnerID:      e.OwnerID,
		DeviceModel:  e.Model,
		DeviceBrand:  optional(e.Brand),
		PhoneNumber:  optional(e.PhoneNumber),
		Status:       string(e.Status),
		RegisteredAt: e.RegisteredAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func reportModelToEntity(m *model.TheftReport) *entity.TheftReport {
	if m == nil {
		return nil
	}
	return &entity.TheftReport{
		ID:                 m.ID.String(),
		CaseNumber:         m.CaseNumber,
		IMEI:               m.IMEI,
		ReporterID:         m.ReporterID,
		IncidentType:       entity.IncidentType(m.IncidentType),
		IncidentDate:       m.IncidentDate.Format(entity.DateLayout),
		IncidentTime:       deref(m.IncidentTime),
		Location:           m.Location,
		Description:        m.Description,
		PoliceReportNumber: deref(m.PoliceReportNumber),
		Reporter: entity.Reporter{
			Name:  deref(m.ReporterName),
			Email: deref(m.ReporterEmail),
			Phone: deref(m.ReporterPhone),
		},
		CreatedAt: m.CreatedAt,
	}
}

func reportEntityToModel(e *entity.TheftReport) (*model.TheftReport, error) {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return nil, err
	}
	incidentDate, err := time.Parse(entity.DateLayout, e.IncidentDate)
	if err != nil {
		return nil, err
	}
	return &model.TheftReport{
		ID:                 id,
		CaseNumber:         e.CaseNumber,
		IMEI:               e.IMEI,
		ReporterID:         e.ReporterID,
		IncidentType:       string(e.IncidentType),
		IncidentDate:       incidentDate,
		IncidentTime:       optional(e.IncidentTime),
		Location:           e.Location,
		Description:        e.Description,
		PoliceReportNumber: optional(e.PoliceReportNumber),
		ReporterName:       optional(e.Reporter.Name),
		ReporterEmail:      optional(e.Reporter.Email),
		ReporterPhone:      optional(e.Reporter.Phone),
		CreatedAt:          e.CreatedAt,
	}, nil
}

func profileModelToEntity(m *model.Profile) *entity.Profile {
	if m == nil {
		return nil
	}
	return &entity.Profile{
		OwnerID:     m.OwnerID,
		FullName:    m.FullName,
		PhoneNumber: deref(m.PhoneNumber),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func profileEntityToModel(e *entity.Profile) *model.Profile {
	return &model.Profile{
		OwnerID:     e.OwnerID,
		FullName:    e.FullName,
		PhoneNumber: optional(e.PhoneNumber),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
