package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"github.com/smartrogo/safephoneng/internal/domain/service"
	"github.com/smartrogo/safephoneng/pkg/metrics"
	"go.uber.org/zap"
)

// ReporterInput is the optional contact of whoever files a report.
type ReporterInput struct {
	Name  string `json:"name" validate:"omitempty,max=120"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// FileReportInput is the payload of a theft report.
type FileReportInput struct {
	IMEI               string        `json:"imei" validate:"required,imei"`
	IncidentType       string        `json:"incident_type" validate:"required,incident_type"`
	IncidentDate       string        `json:"incident_date" validate:"required,datetime=2006-01-02"`
	IncidentTime       string        `json:"incident_time" validate:"omitempty,datetime=15:04"`
	Location           string        `json:"location" validate:"required,max=500"`
	Description        string        `json:"description" validate:"required,max=5000"`
	PoliceReportNumber string        `json:"police_report_number" validate:"omitempty,max=64"`
	Reporter           ReporterInput `json:"reporter"`
}

// statusMarker is the part of the registry the ledger depends on.
type statusMarker interface {
	MarkStolen(ctx context.Context, imei string) (bool, error)
}

// TheftLedger records theft reports and keeps device status in step with them.
type TheftLedger struct {
	reportRepo    domainRepo.TheftReportRepository
	registry      statusMarker
	cacheRepo     domainRepo.CacheRepository
	events        service.EventPublisher
	validator     *InputValidator
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time
	newCaseNumber func() (string, error)
}

// NewTheftLedger creates the ledger. cacheRepo, events and m may be nil.
func NewTheftLedger(
	reportRepo domainRepo.TheftReportRepository,
	registry statusMarker,
	cacheRepo domainRepo.CacheRepository,
	events service.EventPublisher,
	validator *InputValidator,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TheftLedger {
	return &TheftLedger{
		reportRepo:    reportRepo,
		registry:      registry,
		cacheRepo:     cacheRepo,
		events:        events,
		validator:     validator,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
		newCaseNumber: NewCaseNumber,
	}
}

// FileReport stores a theft report and then flags the device stolen. identity
// may be nil for anonymous reports.
//
// The report is written first. When the status update fails afterwards the
// stored report is returned together with a PartialFailure error; verification
// still reports the device stolen because it also looks at reports.
func (l *TheftLedger) FileReport(ctx context.Context, identity *entity.Identity, input FileReportInput) (*entity.TheftReport, error) {
	input = trimReportInput(input)
	if err := l.validator.Struct(input); err != nil {
		l.metrics.IncTheftReport("invalid")
		return nil, domainErrors.NewLedgerInvalidError(input.IMEI, err.Error())
	}
	reporterPhone, err := l.validator.NormalizePhone(input.Reporter.Phone)
	if err != nil {
		l.metrics.IncTheftReport("invalid")
		return nil, domainErrors.NewLedgerInvalidError(input.IMEI, "reporter "+err.Error())
	}

	caseNumber, err := l.newCaseNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate case number: %w", err)
	}

	report := &entity.TheftReport{
		ID:                 uuid.NewString(),
		CaseNumber:         caseNumber,
		IMEI:               input.IMEI,
		IncidentType:       entity.IncidentType(input.IncidentType),
		IncidentDate:       input.IncidentDate,
		IncidentTime:       input.IncidentTime,
		Location:           input.Location,
		Description:        input.Description,
		PoliceReportNumber: input.PoliceReportNumber,
		Reporter: entity.Reporter{
			Name:  input.Reporter.Name,
			Email: input.Reporter.Email,
			Phone: reporterPhone,
		},
		CreatedAt: l.now().UTC(),
	}
	if identity != nil {
		reporterID := identity.UserID
		report.ReporterID = &reporterID
	}

	if err := l.reportRepo.Create(ctx, report); err != nil {
		l.metrics.IncTheftReport("error")
		return nil, fmt.Errorf("failed to store theft report: %w", err)
	}

	l.logger.Info("Theft report filed",
		zap.String("report_id", report.ID),
		zap.String("case_number", report.CaseNumber),
		zap.String("imei", report.IMEI),
		zap.Bool("anonymous", identity == nil))

	registered, markErr := l.registry.MarkStolen(ctx, report.IMEI)

	if err := invalidateVerification(ctx, l.cacheRepo, report.IMEI); err != nil {
		l.logger.Warn("Failed to invalidate verification cache",
			zap.String("imei", report.IMEI),
			zap.Error(err))
	}
	l.publish(ctx, report)

	if markErr != nil {
		l.metrics.IncTheftReport("partial_failure")
		l.logger.Error("Theft report stored but device status sync failed",
			zap.String("report_id", report.ID),
			zap.String("imei", report.IMEI),
			zap.Error(markErr))
		return report, domainErrors.NewPartialFailureError(report.IMEI, report.ID, markErr)
	}

	l.metrics.IncTheftReport("ok")
	if !registered {
		l.logger.Debug("Theft report names an unregistered IMEI", zap.String("imei", report.IMEI))
	}
	return report, nil
}

// ListByIMEI returns the reports for imei, newest first.
func (l *TheftLedger) ListByIMEI(ctx context.Context, imei string) ([]*entity.TheftReport, error) {
	imei = strings.TrimSpace(imei)
	if !ValidIMEI(imei) {
		return nil, domainErrors.NewLedgerInvalidError(imei, "imei must be exactly 15 digits")
	}

	reports, err := l.reportRepo.ListByIMEI(ctx, imei)
	if err != nil {
		return nil, fmt.Errorf("failed to list theft reports: %w", err)
	}
	return reports, nil
}

func (l *TheftLedger) publish(ctx context.Context, report *entity.TheftReport) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishEvent(ctx, service.EventTheftReportFiled, report); err != nil {
		l.logger.Warn("Failed to publish theft report event",
			zap.String("report_id", report.ID),
			zap.Error(err))
	}
}

func trimReportInput(input FileReportInput) FileReportInput {
	input.IMEI = strings.TrimSpace(input.IMEI)
	input.IncidentType = strings.ToLower(strings.TrimSpace(input.IncidentType))
	input.IncidentDate = strings.TrimSpace(input.IncidentDate)
	input.IncidentTime = strings.TrimSpace(input.IncidentTime)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)
	input.PoliceReportNumber = strings.TrimSpace(input.PoliceReportNumber)
	input.Reporter.Name = strings.TrimSpace(input.Reporter.Name)
	input.Reporter.Email = strings.TrimSpace(input.Reporter.Email)
	return input
}
