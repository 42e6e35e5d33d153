package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"github.com/smartrogo/safephoneng/internal/domain/service"
	"github.com/smartrogo/safephoneng/pkg/metrics"
	"go.uber.org/zap"
)

// RegisterInput is the payload of a device registration.
type RegisterInput struct {
	IMEI        string `json:"imei" validate:"required,imei"`
	Model       string `json:"model" validate:"required,max=120"`
	Brand       string `json:"brand" validate:"omitempty,max=120"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	FullName    string `json:"full_name" validate:"omitempty,max=160"`
}

// DeviceRegistry owns the IMEI to owner bindings.
type DeviceRegistry struct {
	deviceRepo  domainRepo.DeviceRepository
	profileRepo domainRepo.ProfileRepository
	cacheRepo   domainRepo.CacheRepository
	events      service.EventPublisher
	validator   *InputValidator
	metrics     *metrics.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewDeviceRegistry creates the registry. cacheRepo and m may be nil.
func NewDeviceRegistry(
	deviceRepo domainRepo.DeviceRepository,
	profileRepo domainRepo.ProfileRepository,
	cacheRepo domainRepo.CacheRepository,
	events service.EventPublisher,
	validator *InputValidator,
	m *metrics.Metrics,
	logger *zap.Logger,
) *DeviceRegistry {
	return &DeviceRegistry{
		deviceRepo:  deviceRepo,
		profileRepo: profileRepo,
		cacheRepo:   cacheRepo,
		events:      events,
		validator:   validator,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// Register binds input.IMEI to the caller. Uniqueness is left to storage, so
// of several concurrent registrations of one IMEI exactly one succeeds.
func (r *DeviceRegistry) Register(ctx context.Context, identity *entity.Identity, input RegisterInput) (*entity.DeviceRegistration, error) {
	input.IMEI = strings.TrimSpace(input.IMEI)
	input.Model = strings.TrimSpace(input.Model)
	input.Brand = strings.TrimSpace(input.Brand)
	input.FullName = strings.TrimSpace(input.FullName)

	if err := r.validator.Struct(input); err != nil {
		r.metrics.IncRegistration("invalid")
		return nil, domainErrors.NewRegistryInvalidError(input.IMEI, err.Error())
	}
	phone, err := r.validator.NormalizePhone(input.PhoneNumber)
	if err != nil {
		r.metrics.IncRegistration("invalid")
		return nil, domainErrors.NewRegistryInvalidError(input.IMEI, err.Error())
	}

	now := r.now().UTC()
	device := &entity.DeviceRegistration{
		IMEI:         input.IMEI,
		OwnerID:      identity.UserID,
		Model:        input.Model,
		Brand:        input.Brand,
		PhoneNumber:  phone,
		Status:       entity.DeviceStatusActive,
		RegisteredAt: now,
		UpdatedAt:    now,
	}

	if err := r.deviceRepo.Create(ctx, device); err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateKey) {
			r.metrics.IncRegistration("duplicate")
			r.logger.Info("Duplicate IMEI registration rejected",
				zap.String("imei", device.IMEI),
				zap.String("user_id", identity.UserID))
			return nil, domainErrors.NewDuplicateIMEIError(device.IMEI, err)
		}
		r.metrics.IncRegistration("error")
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	r.metrics.IncRegistration("ok")

	r.logger.Info("Device registered",
		zap.String("imei", device.IMEI),
		zap.String("user_id", identity.UserID))

	r.ensureProfile(ctx, identity, input.FullName, phone, now)
	r.invalidate(ctx, device.IMEI)
	r.publish(ctx, service.EventDeviceRegistered, device)

	return device, nil
}

// ListByOwner returns the caller's registrations, newest first.
func (r *DeviceRegistry) ListByOwner(ctx context.Context, identity *entity.Identity) ([]*entity.DeviceRegistration, error) {
	devices, err := r.deviceRepo.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// Get returns the registration of imei or nil when there is none.
func (r *DeviceRegistry) Get(ctx context.Context, imei string) (*entity.DeviceRegistration, error) {
	device, err := r.deviceRepo.GetByIMEI(ctx, imei)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return device, nil
}

// UpdateStatus changes the status of a device the caller owns. The only
// transition is active to stolen; asking for the current status is a no-op.
func (r *DeviceRegistry) UpdateStatus(
	ctx context.Context,
	identity *entity.Identity,
	imei string,
	newStatus entity.DeviceStatus,
) (*entity.DeviceRegistration, error) {
	imei = strings.TrimSpace(imei)
	if !ValidIMEI(imei) {
		return nil, domainErrors.NewRegistryInvalidError(imei, "imei must be exactly 15 digits")
	}
	if !newStatus.Valid() {
		return nil, domainErrors.NewRegistryInvalidError(imei, "status must be one of active, stolen")
	}

	device, err := r.deviceRepo.GetByIMEI(ctx, imei)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	if device == nil {
		return nil, domainErrors.NewRegistryNotFoundError(imei)
	}
	if device.OwnerID != identity.UserID {
		r.logger.Warn("Status change by non-owner rejected",
			zap.String("imei", imei),
			zap.String("user_id", identity.UserID))
		return nil, domainErrors.NewRegistryForbiddenError(imei)
	}
	if !device.Status.CanTransitionTo(newStatus) {
		return nil, domainErrors.NewRegistryInvalidError(imei,
			fmt.Sprintf("cannot change status from %s to %s", device.Status, newStatus))
	}
	if device.Status == newStatus {
		return device, nil
	}

	updated, err := r.deviceRepo.MarkStolen(ctx, imei, r.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update device status: %w", err)
	}
	if updated == nil {
		return nil, domainErrors.NewRegistryNotFoundError(imei)
	}
	r.metrics.IncStatusChange("owner", string(updated.Status))

	r.logger.Info("Device status updated",
		zap.String("imei", imei),
		zap.String("user_id", identity.UserID),
		zap.String("status", string(updated.Status)))

	r.invalidate(ctx, imei)
	r.publish(ctx, service.EventDeviceStolen, updated)

	return updated, nil
}

// MarkStolen flags imei as stolen regardless of owner. It reports whether the
// IMEI has a registration and is a no-op for devices already stolen.
func (r *DeviceRegistry) MarkStolen(ctx context.Context, imei string) (bool, error) {
	before, err := r.deviceRepo.GetByIMEI(ctx, imei)
	if err != nil {
		return false, fmt.Errorf("failed to get device: %w", err)
	}
	if before == nil {
		return false, nil
	}
	if before.Status == entity.DeviceStatusStolen {
		return true, nil
	}

	updated, err := r.deviceRepo.MarkStolen(ctx, imei, r.now().UTC())
	if err != nil {
		return true, fmt.Errorf("failed to mark device stolen: %w", err)
	}
	if updated == nil {
		return false, nil
	}
	r.metrics.IncStatusChange("report", string(updated.Status))
	r.publish(ctx, service.EventDeviceStolen, updated)
	return true, nil
}

func (r *DeviceRegistry) ensureProfile(ctx context.Context, identity *entity.Identity, fullName, phone string, now time.Time) {
	if r.profileRepo == nil {
		return
	}
	created, err := r.profileRepo.CreateIfAbsent(ctx, &entity.Profile{
		OwnerID:     identity.UserID,
		FullName:    fullName,
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		r.logger.Warn("Failed to create profile at registration",
			zap.String("user_id", identity.UserID),
			zap.Error(err))
		return
	}
	if created {
		r.logger.Debug("Profile created at registration", zap.String("user_id", identity.UserID))
	}
}

func (r *DeviceRegistry) invalidate(ctx context.Context, imei string) {
	if err := invalidateVerification(ctx, r.cacheRepo, imei); err != nil {
		r.logger.Warn("Failed to invalidate verification cache",
			zap.String("imei", imei),
			zap.Error(err))
	}
}

func (r *DeviceRegistry) publish(ctx context.Context, eventType string, device *entity.DeviceRegistration) {
	if r.events == nil {
		return
	}
	if err := r.events.PublishEvent(ctx, eventType, device); err != nil {
		r.logger.Warn("Failed to publish registry event",
			zap.String("event_type", eventType),
			zap.String("imei", device.IMEI),
			zap.Error(err))
	}
}
