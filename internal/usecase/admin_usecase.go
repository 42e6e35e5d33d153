package usecase

import (
	"context"
	"fmt"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"go.uber.org/zap"
)

// ReconcileResult lists the registrations Reconcile moved to stolen.
type ReconcileResult struct {
	Checked  int      `json:"checked" yaml:"checked"`
	Repaired []string `json:"repaired" yaml:"repaired"`
	Failed   []string `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// AdminUsecase backs the admin console. Every method requires an admin identity.
type AdminUsecase struct {
	deviceRepo domainRepo.DeviceRepository
	reportRepo domainRepo.TheftReportRepository
	registry   statusMarker
	cacheRepo  domainRepo.CacheRepository
	logger     *zap.Logger
}

func NewAdminUsecase(
	deviceRepo domainRepo.DeviceRepository,
	reportRepo domainRepo.TheftReportRepository,
	registry statusMarker,
	cacheRepo domainRepo.CacheRepository,
	logger *zap.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		deviceRepo: deviceRepo,
		reportRepo: reportRepo,
		registry:   registry,
		cacheRepo:  cacheRepo,
		logger:     logger,
	}
}

func (u *AdminUsecase) authorize(identity *entity.Identity) error {
	if !identity.IsAdmin() {
		return domainErrors.ErrAdminRequired
	}
	return nil
}

// ListDevices returns one page of all registrations with owner names.
func (u *AdminUsecase) ListDevices(ctx context.Context, identity *entity.Identity, filter entity.AdminDeviceFilter) (*entity.PaginatedDevicesResponse, error) {
	if err := u.authorize(identity); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainErrors.NewRegistryInvalidError("", "status must be one of active, stolen")
	}
	filter.Validate()

	devices, total, err := u.deviceRepo.ListAdmin(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return &entity.PaginatedDevicesResponse{
		Data:       devices,
		Pagination: entity.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

// ListReports returns one page of all theft reports.
func (u *AdminUsecase) ListReports(ctx context.Context, identity *entity.Identity, filter entity.AdminReportFilter) (*entity.PaginatedReportsResponse, error) {
	if err := u.authorize(identity); err != nil {
		return nil, err
	}
	filter.Validate()

	reports, total, err := u.reportRepo.ListAdmin(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list theft reports: %w", err)
	}
	return &entity.PaginatedReportsResponse{
		Data:       reports,
		Pagination: entity.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (u *AdminUsecase) Stats(ctx context.Context, identity *entity.Identity) (*entity.RegistryStats, error) {
	if err := u.authorize(identity); err != nil {
		return nil, err
	}

	counts, err := u.deviceRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count devices: %w", err)
	}
	reports, err := u.reportRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count theft reports: %w", err)
	}

	stats := &entity.RegistryStats{
		ActiveDevices: counts[entity.DeviceStatusActive],
		StolenDevices: counts[entity.DeviceStatusStolen],
		TheftReports:  reports,
	}
	for _, n := range counts {
		stats.Devices += n
	}
	return stats, nil
}

// Reconcile marks stolen every active registration that already has a theft
// report, repairing reports whose status sync failed.
func (u *AdminUsecase) Reconcile(ctx context.Context, identity *entity.Identity) (*ReconcileResult, error) {
	if err := u.authorize(identity); err != nil {
		return nil, err
	}
	return u.reconcile(ctx)
}

// ReconcileAll is Reconcile for trusted callers such as the reconcile command.
func (u *AdminUsecase) ReconcileAll(ctx context.Context) (*ReconcileResult, error) {
	return u.reconcile(ctx)
}

func (u *AdminUsecase) reconcile(ctx context.Context) (*ReconcileResult, error) {
	imeis, err := u.deviceRepo.ListActiveWithReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced devices: %w", err)
	}

	result := &ReconcileResult{Checked: len(imeis), Repaired: make([]string, 0, len(imeis))}
	for _, imei := range imeis {
		if _, err := u.registry.MarkStolen(ctx, imei); err != nil {
			u.logger.Error("Failed to reconcile device status",
				zap.String("imei", imei),
				zap.Error(err))
			result.Failed = append(result.Failed, imei)
			continue
		}
		if err := invalidateVerification(ctx, u.cacheRepo, imei); err != nil {
			u.logger.Warn("Failed to invalidate verification cache",
				zap.String("imei", imei),
				zap.Error(err))
		}
		result.Repaired = append(result.Repaired, imei)
	}

	u.logger.Info("Device status reconciliation finished",
		zap.Int("checked", result.Checked),
		zap.Int("repaired", len(result.Repaired)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}
