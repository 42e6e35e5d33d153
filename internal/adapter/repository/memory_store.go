package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
)

// MemoryStore keeps registrations, reports and profiles in process memory. A
// single RWMutex serializes writes so IMEI uniqueness holds under concurrent
// registration the same way the primary key does in Postgres.
type MemoryStore struct {
	mu       sync.RWMutex
	devices  map[string]entity.DeviceRegistration
	reports  []entity.TheftReport
	profiles map[string]entity.Profile
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		devices:  make(map[string]entity.DeviceRegistration),
		profiles: make(map[string]entity.Profile),
	}
}

// Devices returns the store's DeviceRepository view.
func (s *MemoryStore) Devices() domainRepo.DeviceRepository { return memoryDevices{s} }

// TheftReports returns the store's TheftReportRepository view.
func (s *MemoryStore) TheftReports() domainRepo.TheftReportRepository { return memoryReports{s} }

// Profiles returns the store's ProfileRepository view.
func (s *MemoryStore) Profiles() domainRepo.ProfileRepository { return memoryProfiles{s} }

type memoryDevices struct{ s *MemoryStore }

func (m memoryDevices) Create(_ context.Context, device *entity.DeviceRegistration) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.devices[device.IMEI]; exists {
		return fmt.Errorf("imei %s: %w", device.IMEI, domainErrors.ErrDuplicateKey)
	}
	m.s.devices[device.IMEI] = *device
	return nil
}

func (m memoryDevices) GetByIMEI(_ context.Context, imei string) (*entity.DeviceRegistration, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	device, ok := m.s.devices[imei]
	if !ok {
		return nil, nil
	}
	return &device, nil
}

func (m memoryDevices) ListByOwner(_ context.Context, ownerID string) ([]*entity.DeviceRegistration, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	result := make([]*entity.DeviceRegistration, 0)
	for _, device := range m.s.devices {
		if device.OwnerID == ownerID {
			d := device
			result = append(result, &d)
		}
	}
	sortDevicesNewestFirst(result)
	return result, nil
}

func (m memoryDevices) MarkStolen(_ context.Context, imei string, at time.Time) (*entity.DeviceRegistration, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	device, ok := m.s.devices[imei]
	if !ok {
		return nil, nil
	}
	if device.Status == entity.DeviceStatusActive {
		device.Status = entity.DeviceStatusStolen
		device.UpdatedAt = at
		m.s.devices[imei] = device
	}
	return &device, nil
}

func (m memoryDevices) ListAdmin(_ context.Context, filter entity.AdminDeviceFilter) ([]*entity.AdminDevice, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*entity.DeviceRegistration, 0)
	for _, device := range m.s.devices {
		if filter.Status != "" && device.Status != filter.Status {
			continue
		}
		if search != "" && !containsAny(search,
			device.IMEI, device.Model, device.Brand, m.s.profiles[device.OwnerID].FullName) {
			continue
		}
		d := device
		matched = append(matched, &d)
	}
	sortDevicesNewestFirst(matched)

	start, end := pageBounds(len(matched), filter.PaginationParams)
	result := make([]*entity.AdminDevice, 0, end-start)
	for _, device := range matched[start:end] {
		ownerName := m.s.profiles[device.OwnerID].FullName
		if ownerName == "" {
			ownerName = "Unknown"
		}
		result = append(result, &entity.AdminDevice{
			DeviceRegistration: *device,
			OwnerName:          ownerName,
		})
	}
	return result, int64(len(matched)), nil
}

func (m memoryDevices) CountByStatus(_ context.Context) (map[entity.DeviceStatus]int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	counts := make(map[entity.DeviceStatus]int64)
	for _, device := range m.s.devices {
		counts[device.Status]++
	}
	return counts, nil
}

func (m memoryDevices) ListActiveWithReports(_ context.Context) ([]string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	seen := make(map[string]bool)
	imeis := make([]string, 0)
	for _, report := range m.s.reports {
		device, ok := m.s.devices[report.IMEI]
		if !ok || device.Status != entity.DeviceStatusActive || seen[report.IMEI] {
			continue
		}
		seen[report.IMEI] = true
		imeis = append(imeis, report.IMEI)
	}
	sort.Strings(imeis)
	return imeis, nil
}

type memoryReports struct{ s *MemoryStore }

func (m memoryReports) Create(_ context.Context, report *entity.TheftReport) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.reports {
		if existing.ID == report.ID || existing.CaseNumber == report.CaseNumber {
			return fmt.Errorf("report %s: %w", report.ID, domainErrors.ErrDuplicateKey)
		}
	}
	m.s.reports = append(m.s.reports, *report)
	return nil
}

func (m memoryReports) ListByIMEI(_ context.Context, imei string) ([]*entity.TheftReport, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	result := make([]*entity.TheftReport, 0)
	for _, report := range m.s.reports {
		if report.IMEI == imei {
			r := report
			result = append(result, &r)
		}
	}
	sortReportsNewestFirst(result)
	return result, nil
}

func (m memoryReports) ListAdmin(_ context.Context, filter entity.AdminReportFilter) ([]*entity.TheftReport, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*entity.TheftReport, 0)
	for _, report := range m.s.reports {
		if search != "" && !containsAny(search, report.IMEI, report.Reporter.Name, report.Location) {
			continue
		}
		r := report
		matched = append(matched, &r)
	}
	sortReportsNewestFirst(matched)

	start, end := pageBounds(len(matched), filter.PaginationParams)
	return matched[start:end], int64(len(matched)), nil
}

func (m memoryReports) Count(_ context.Context) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return int64(len(m.s.reports)), nil
}

type memoryProfiles struct{ s *MemoryStore }

func (m memoryProfiles) GetByOwnerID(_ context.Context, ownerID string) (*entity.Profile, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	profile, ok := m.s.profiles[ownerID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (m memoryProfiles) CreateIfAbsent(_ context.Context, profile *entity.Profile) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.profiles[profile.OwnerID]; exists {
		return false, nil
	}
	m.s.profiles[profile.OwnerID] = *profile
	return true, nil
}

func (m memoryProfiles) Upsert(_ context.Context, profile *entity.Profile) error {
	if profile.OwnerID == "" {
		return errors.New("profile owner is required")
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if existing, ok := m.s.profiles[profile.OwnerID]; ok {
		profile.CreatedAt = existing.CreatedAt
	}
	m.s.profiles[profile.OwnerID] = *profile
	return nil
}

func sortDevicesNewestFirst(devices []*entity.DeviceRegistration) {
	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].RegisteredAt.Equal(devices[j].RegisteredAt) {
			return devices[i].IMEI < devices[j].IMEI
		}
		return devices[i].RegisteredAt.After(devices[j].RegisteredAt)
	})
}

// sortReportsNewestFirst orders by created_at descending. Reports with equal
// timestamps are listed most recently inserted first.
func sortReportsNewestFirst(reports []*entity.TheftReport) {
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}

func containsAny(search string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func pageBounds(total int, page entity.PaginationParams) (int, int) {
	page.Validate()
	start := page.CalculateOffset()
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return start, end
}
