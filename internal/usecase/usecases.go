package usecase

import (
	"time"

	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"github.com/smartrogo/safephoneng/internal/domain/service"
	"github.com/smartrogo/safephoneng/pkg/metrics"
	"go.uber.org/zap"
)

// Dependencies are the collaborators shared by every usecase. Cache, Events
// and Metrics are optional.
type Dependencies struct {
	Devices       domainRepo.DeviceRepository
	TheftReports  domainRepo.TheftReportRepository
	Profiles      domainRepo.ProfileRepository
	Cache         domainRepo.CacheRepository
	CacheTTL      time.Duration
	Events        service.EventPublisher
	DefaultRegion string
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

// Usecases groups the application services exposed over HTTP.
type Usecases struct {
	Registry     *DeviceRegistry
	Ledger       *TheftLedger
	Verification *VerificationService
	Profiles     *ProfileUsecase
	Admin        *AdminUsecase
}

// NewUsecases wires the registry, ledger, verification, profile and admin
// services over one set of repositories.
func NewUsecases(deps Dependencies) *Usecases {
	validator := NewInputValidator(deps.DefaultRegion)
	registry := NewDeviceRegistry(deps.Devices, deps.Profiles, deps.Cache, deps.Events, validator, deps.Metrics, deps.Logger)

	return &Usecases{
		Registry:     registry,
		Ledger:       NewTheftLedger(deps.TheftReports, registry, deps.Cache, deps.Events, validator, deps.Metrics, deps.Logger),
		Verification: NewVerificationService(deps.Devices, deps.TheftReports, deps.Cache, deps.CacheTTL, deps.Metrics, deps.Logger),
		Profiles:     NewProfileUsecase(deps.Profiles, validator, deps.Logger),
		Admin:        NewAdminUsecase(deps.Devices, deps.TheftReports, registry, deps.Cache, deps.Logger),
	}
}
