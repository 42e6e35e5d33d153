package repository

import (
	"context"
	"time"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
)

// DeviceRepository stores device registrations. Implementations must enforce
// IMEI uniqueness in storage and return errors.ErrDuplicateKey when an insert
// collides.
type DeviceRepository interface {
	Create(ctx context.Context, device *entity.DeviceRegistration) error

	// GetByIMEI returns nil, nil when the IMEI has no registration.
	GetByIMEI(ctx context.Context, imei string) (*entity.DeviceRegistration, error)

	// ListByOwner returns the owner's registrations, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.DeviceRegistration, error)

	// MarkStolen moves an active registration to stolen in a single conditional
	// write and returns the current row, or nil when the IMEI is unregistered.
	MarkStolen(ctx context.Context, imei string, at time.Time) (*entity.DeviceRegistration, error)

	// ListAdmin returns registrations joined with owner names plus the total match count.
	ListAdmin(ctx context.Context, filter entity.AdminDeviceFilter) ([]*entity.AdminDevice, int64, error)

	CountByStatus(ctx context.Context) (map[entity.DeviceStatus]int64, error)

	// ListActiveWithReports returns IMEIs that are still active although a theft
	// report exists for them.
	ListActiveWithReports(ctx context.Context) ([]string, error)
}
