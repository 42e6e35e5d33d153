package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	"github.com/smartrogo/safephoneng/internal/domain/model"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type deviceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDeviceRepository creates a GORM backed device repository.
func NewDeviceRepository(db *gorm.DB, logger *zap.Logger) domainRepo.DeviceRepository {
	return &deviceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the registration. The primary key on imei_number rejects a
// second registration of the same IMEI.
func (r *deviceRepository) Create(ctx context.Context, device *entity.DeviceRegistration) error {
	err := r.db.WithContext(ctx).Create(deviceEntityToModel(device)).Error
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("imei %s: %w", device.IMEI, domainErrors.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create device registration: %w", err)
	}
	return nil
}

func (r *deviceRepository) GetByIMEI(ctx context.Context, imei string) (*entity.DeviceRegistration, error) {
	var device model.DeviceRegistration
	err := r.db.WithContext(ctx).Where("imei_number = ?", imei).First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get device registration: %w", err)
	}
	return deviceModelToEntity(&device), nil
}

func (r *deviceRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.DeviceRegistration, error) {
	var devices []model.DeviceRegistration
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("registration_date DESC").
		Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list device registrations: %w", err)
	}

	result := make([]*entity.DeviceRegistration, 0, len(devices))
	for i := range devices {
		result = append(result, deviceModelToEntity(&devices[i]))
	}
	return result, nil
}

// MarkStolen only touches rows that are still active, so a concurrent caller
// can never move a registration backwards.
func (r *deviceRepository) MarkStolen(ctx context.Context, imei string, at time.Time) (*entity.DeviceRegistration, error) {
	res := r.db.WithContext(ctx).
		Model(&model.DeviceRegistration{}).
		Where("imei_number = ? AND status = ?", imei, string(entity.DeviceStatusActive)).
		Updates(map[string]interface{}{
			"status":     string(entity.DeviceStatusStolen),
			"updated_at": at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark device stolen: %w", res.Error)
	}

	r.logger.Debug("Device status update applied",
		zap.String("imei", imei),
		zap.Int64("rows_affected", res.RowsAffected))

	return r.GetByIMEI(ctx, imei)
}

func (r *deviceRepository) ListAdmin(ctx context.Context, filter entity.AdminDeviceFilter) ([]*entity.AdminDevice, int64, error) {
	query := r.db.WithContext(ctx).
		Table("phone_registrations AS d").
		Joins("LEFT JOIN profiles p ON p.user_id = d.user_id")

	if filter.Status != "" {
		query = query.Where("d.status = ?", string(filter.Status))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(d.imei_number) LIKE ? OR LOWER(d.device_model) LIKE ? OR LOWER(COALESCE(d.device_brand, '')) LIKE ? OR LOWER(COALESCE(p.full_name, '')) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count device registrations: %w", err)
	}

	var rows []model.AdminDeviceRow
	err := query.
		Select("d.*, p.full_name AS owner_name").
		Order("d.registration_date DESC").
		Limit(filter.Limit).
		Offset(filter.CalculateOffset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list device registrations: %w", err)
	}

	result := make([]*entity.AdminDevice, 0, len(rows))
	for i := range rows {
		ownerName := deref(rows[i].OwnerName)
		if ownerName == "" {
			ownerName = "Unknown"
		}
		result = append(result, &entity.AdminDevice{
			DeviceRegistration: *deviceModelToEntity(&rows[i].DeviceRegistration),
			OwnerName:          ownerName,
		})
	}
	return result, total, nil
}

func (r *deviceRepository) CountByStatus(ctx context.Context) (map[entity.DeviceStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.DeviceRegistration{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count device registrations: %w", err)
	}

	counts := make(map[entity.DeviceStatus]int64, len(rows))
	for _, row := range rows {
		counts[entity.DeviceStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *deviceRepository) ListActiveWithReports(ctx context.Context) ([]string, error) {
	var imeis []string
	err := r.db.WithContext(ctx).
		Model(&model.DeviceRegistration{}).
		Where("status = ?", string(entity.DeviceStatusActive)).
		Where("EXISTS (SELECT 1 FROM theft_reports t WHERE t.imei_number = phone_registrations.imei_number)").
		Order("imei_number").
		Pluck("imei_number", &imeis).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced registrations: %w", err)
	}
	return imeis, nil
}
