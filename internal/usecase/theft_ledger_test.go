package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smartrogo/safephoneng/internal/adapter/repository"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTheftLedger_FileReportMarksRegisteredDeviceStolen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.registry.Register(ctx, alice, RegisterInput{IMEI: testIMEI, Model: "Galaxy A14"})
	require.NoError(t, err)

	report, err := env.ledger.FileReport(ctx, nil, validReport(testIMEI))
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.True(t, strings.HasPrefix(report.CaseNumber, "SPR-"))
	assert.Len(t, report.CaseNumber, len("SPR-")+10)
	assert.Nil(t, report.ReporterID)
	assert.Equal(t, entity.IncidentRobbery, report.IncidentType)

	device, err := env.registry.Get(ctx, testIMEI)
	require.NoError(t, err)
	assert.Equal(t, entity.DeviceStatusStolen, device.Status)

	result, err := env.verification.Verify(ctx, testIMEI)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.Registered)
	assert.Equal(t, entity.DeviceStatusStolen, result.Status)
	require.Len(t, result.Reports, 1)
	assert.Equal(t, "Ikeja, Lagos", result.Reports[0].Location)
	assert.Equal(t, "LAG/2024/0042", result.Reports[0].PoliceReportNumber)
}

func TestTheftLedger_FileReportRecordsReporter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	input := validReport(testIMEI)
	input.Reporter = ReporterInput{Name: "Bola", Email: "bola@example.com", Phone: "+234 803 123 4567"}

	report, err := env.ledger.FileReport(ctx, bob, input)
	require.NoError(t, err)
	require.NotNil(t, report.ReporterID)
	assert.Equal(t, bob.UserID, *report.ReporterID)
	assert.Equal(t, "+2348031234567", report.Reporter.Phone)
}

func TestTheftLedger_FileReportForUnregisteredIMEI(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.FileReport(ctx, nil, validReport(otherTestIMEI))
	require.NoError(t, err)

	device, err := env.registry.Get(ctx, otherTestIMEI)
	require.NoError(t, err)
	assert.Nil(t, device)

	result, err := env.verification.Verify(ctx, otherTestIMEI)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.Registered)
	assert.Equal(t, entity.DeviceStatusStolen, result.Status)
	assert.Empty(t, result.Model)
	assert.Nil(t, result.RegisteredAt)
}

func TestTheftLedger_FileReportValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*FileReportInput)
	}{
		{"bad imei", func(in *FileReportInput) { in.IMEI = "1234" }},
		{"missing location", func(in *FileReportInput) { in.Location = "  " }},
		{"missing description", func(in *FileReportInput) { in.Description = "" }},
		{"missing incident type", func(in *FileReportInput) { in.IncidentType = "" }},
		{"unknown incident type", func(in *FileReportInput) { in.IncidentType = "vandalism" }},
		{"bad date", func(in *FileReportInput) { in.IncidentDate = "30/05/2024" }},
		{"impossible date", func(in *FileReportInput) { in.IncidentDate = "2024-02-30" }},
		{"bad time", func(in *FileReportInput) { in.IncidentTime = "9pm" }},
		{"bad reporter email", func(in *FileReportInput) { in.Reporter.Email = "not-an-email" }},
		{"bad reporter phone", func(in *FileReportInput) { in.Reporter.Phone = "12" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			input := validReport(testIMEI)
			tt.mutate(&input)

			report, err := env.ledger.FileReport(ctx, nil, input)
			assert.Nil(t, report)
			assert.True(t, domainErrors.IsLedgerError(err, domainErrors.LedgerInvalid), "got %v", err)

			count, err := env.store.TheftReports().Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestTheftLedger_PartialFailureKeepsReportVisible(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	logger := zap.NewNop()
	validator := NewInputValidator("NG")

	registry := NewDeviceRegistry(store.Devices(), store.Profiles(), nil, nil, validator, nil, logger)
	_, err := registry.Register(ctx, alice, RegisterInput{IMEI: testIMEI, Model: "Pixel 7"})
	require.NoError(t, err)

	marker := new(MockStatusMarker)
	marker.On("MarkStolen", mock.Anything, testIMEI).Return(true, errors.New("connection reset"))

	ledger := NewTheftLedger(store.TheftReports(), marker, nil, nil, validator, nil, logger)
	report, err := ledger.FileReport(ctx, nil, validReport(testIMEI))

	require.NotNil(t, report)
	var ledgerErr *domainErrors.LedgerError
	require.True(t, errors.As(err, &ledgerErr))
	assert.Equal(t, domainErrors.LedgerPartialFailure, ledgerErr.Kind)
	assert.Equal(t, report.ID, ledgerErr.ReportID)

	device, err := store.Devices().GetByIMEI(ctx, testIMEI)
	require.NoError(t, err)
	assert.Equal(t, entity.DeviceStatusActive, device.Status)

	verification := NewVerificationService(store.Devices(), store.TheftReports(), nil, 0, nil, logger)
	result, err := verification.Verify(ctx, testIMEI)
	require.NoError(t, err)
	assert.Equal(t, entity.DeviceStatusStolen, result.Status)

	admin := NewAdminUsecase(store.Devices(), store.TheftReports(), registry, nil, logger)
	repaired, err := admin.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{testIMEI}, repaired.Repaired)

	device, err = store.Devices().GetByIMEI(ctx, testIMEI)
	require.NoError(t, err)
	assert.Equal(t, entity.DeviceStatusStolen, device.Status)
	marker.AssertExpectations(t)
}

func TestTheftLedger_CacheInvalidationFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	logger := zap.NewNop()
	validator := NewInputValidator("NG")

	cache := new(MockCacheRepository)
	cache.On("Delete", mock.Anything, VerificationCacheKey(testIMEI)).Return(errors.New("redis down"))

	registry := NewDeviceRegistry(store.Devices(), store.Profiles(), nil, nil, validator, nil, logger)
	ledger := NewTheftLedger(store.TheftReports(), registry, cache, nil, validator, nil, logger)

	report, err := ledger.FileReport(ctx, nil, validReport(testIMEI))
	require.NoError(t, err)
	assert.NotNil(t, report)
	cache.AssertExpectations(t)
}

func TestTheftLedger_ListByIMEINewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.ledger.FileReport(ctx, nil, validReport(testIMEI))
	require.NoError(t, err)
	second, err := env.ledger.FileReport(ctx, alice, validReport(testIMEI))
	require.NoError(t, err)
	_, err = env.ledger.FileReport(ctx, nil, validReport(otherTestIMEI))
	require.NoError(t, err)

	reports, err := env.ledger.ListByIMEI(ctx, testIMEI)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)
	assert.NotEqual(t, first.CaseNumber, second.CaseNumber)

	_, err = env.ledger.ListByIMEI(ctx, "abc")
	assert.True(t, domainErrors.IsLedgerError(err, domainErrors.LedgerInvalid))
}
