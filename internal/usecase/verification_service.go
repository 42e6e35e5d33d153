package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"github.com/smartrogo/safephoneng/pkg/metrics"
	"go.uber.org/zap"
)

const verificationCachePrefix = "verify:"

// VerificationCacheKey is the cache key of the verification result of imei.
func VerificationCacheKey(imei string) string {
	return verificationCachePrefix + imei
}

func invalidateVerification(ctx context.Context, cacheRepo domainRepo.CacheRepository, imei string) error {
	if cacheRepo == nil {
		return nil
	}
	return cacheRepo.Delete(ctx, VerificationCacheKey(imei))
}

// VerificationService answers the public "is this phone stolen" question. It
// only reads storage.
type VerificationService struct {
	deviceRepo domainRepo.DeviceRepository
	reportRepo domainRepo.TheftReportRepository
	cacheRepo  domainRepo.CacheRepository
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewVerificationService creates the service. A nil cacheRepo or a zero ttl
// disables caching.
func NewVerificationService(
	deviceRepo domainRepo.DeviceRepository,
	reportRepo domainRepo.TheftReportRepository,
	cacheRepo domainRepo.CacheRepository,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *VerificationService {
	if cacheTTL <= 0 {
		cacheRepo = nil
	}
	return &VerificationService{
		deviceRepo: deviceRepo,
		reportRepo: reportRepo,
		cacheRepo:  cacheRepo,
		cacheTTL:   cacheTTL,
		metrics:    m,
		logger:     logger,
	}
}

// Verify reports whether imei is known and stolen. A device counts as stolen
// when its registration says so or when any theft report names it, so a
// report whose status sync failed still shows up here.
func (s *VerificationService) Verify(ctx context.Context, imei string) (*entity.VerificationResult, error) {
	imei = strings.TrimSpace(imei)
	if !ValidIMEI(imei) {
		return nil, domainErrors.NewRegistryInvalidError(imei, "imei must be exactly 15 digits")
	}

	if cached := s.fromCache(ctx, imei); cached != nil {
		s.record(cached, "hit")
		return cached, nil
	}

	device, err := s.deviceRepo.GetByIMEI(ctx, imei)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	reports, err := s.reportRepo.ListByIMEI(ctx, imei)
	if err != nil {
		return nil, fmt.Errorf("failed to list theft reports: %w", err)
	}

	result := buildVerificationResult(imei, device, reports)
	s.toCache(ctx, result)
	s.record(result, "miss")
	return result, nil
}

func buildVerificationResult(imei string, device *entity.DeviceRegistration, reports []*entity.TheftReport) *entity.VerificationResult {
	if device == nil && len(reports) == 0 {
		return &entity.VerificationResult{IMEI: imei, Found: false}
	}

	result := &entity.VerificationResult{
		IMEI:   imei,
		Found:  true,
		Status: entity.DeviceStatusActive,
	}
	if device != nil {
		registeredAt, updatedAt := device.RegisteredAt, device.UpdatedAt
		result.Registered = true
		result.Status = device.Status
		result.Model = device.Model
		result.Brand = device.Brand
		result.RegisteredAt = &registeredAt
		result.UpdatedAt = &updatedAt
	}
	if len(reports) > 0 {
		result.Status = entity.DeviceStatusStolen
		result.Reports = make([]entity.VerificationReport, 0, len(reports))
		for _, report := range reports {
			result.Reports = append(result.Reports, entity.VerificationReport{
				Location:           report.Location,
				PoliceReportNumber: report.PoliceReportNumber,
				IncidentDate:       report.IncidentDate,
				ReportedAt:         report.CreatedAt,
			})
		}
	}
	return result
}

func (s *VerificationService) fromCache(ctx context.Context, imei string) *entity.VerificationResult {
	if s.cacheRepo == nil {
		return nil
	}
	raw, err := s.cacheRepo.Get(ctx, VerificationCacheKey(imei))
	if err != nil {
		if !s.cacheRepo.IsNotFound(err) {
			s.logger.Warn("Verification cache read failed, using storage",
				zap.String("imei", imei),
				zap.Error(err))
		}
		return nil
	}

	var result entity.VerificationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("Discarding malformed verification cache entry",
			zap.String("imei", imei),
			zap.Error(err))
		return nil
	}
	return &result
}

// toCache stores stolen results only. Status never leaves stolen and reports
// are never removed, so such an entry cannot go stale.
func (s *VerificationService) toCache(ctx context.Context, result *entity.VerificationResult) {
	if s.cacheRepo == nil || !result.Found || result.Status != entity.DeviceStatusStolen {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cacheRepo.Set(ctx, VerificationCacheKey(result.IMEI), string(payload), s.cacheTTL); err != nil {
		s.logger.Warn("Verification cache write failed",
			zap.String("imei", result.IMEI),
			zap.Error(err))
	}
}

func (s *VerificationService) record(result *entity.VerificationResult, cache string) {
	outcome := "not_found"
	if result.Found {
		outcome = string(result.Status)
	}
	s.metrics.IncVerification(outcome)
	s.logger.Debug("IMEI verified",
		zap.String("imei", result.IMEI),
		zap.String("outcome", outcome),
		zap.String("cache", cache))
}
