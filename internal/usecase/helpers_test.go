package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smartrogo/safephoneng/internal/adapter/repository"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	testIMEI      = "356938035643809"
	otherTestIMEI = "490154203237518"
)

var (
	alice = &entity.Identity{UserID: "user-alice", Email: "alice@example.com"}
	bob   = &entity.Identity{UserID: "user-bob", Email: "bob@example.com"}
	admin = &entity.Identity{UserID: "user-admin", Role: entity.RoleAdmin}
)

// testClock hands out strictly increasing timestamps.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testEnv struct {
	store        *repository.MemoryStore
	clock        *testClock
	registry     *DeviceRegistry
	ledger       *TheftLedger
	verification *VerificationService
	profiles     *ProfileUsecase
	admin        *AdminUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	clock := newTestClock()
	validator := NewInputValidator("NG")

	registry := NewDeviceRegistry(store.Devices(), store.Profiles(), nil, nil, validator, nil, logger)
	registry.now = clock.Now

	ledger := NewTheftLedger(store.TheftReports(), registry, nil, nil, validator, nil, logger)
	ledger.now = clock.Now

	profiles := NewProfileUsecase(store.Profiles(), validator, logger)
	profiles.now = clock.Now

	return &testEnv{
		store:        store,
		clock:        clock,
		registry:     registry,
		ledger:       ledger,
		verification: NewVerificationService(store.Devices(), store.TheftReports(), nil, 0, nil, logger),
		profiles:     profiles,
		admin:        NewAdminUsecase(store.Devices(), store.TheftReports(), registry, nil, logger),
	}
}

func validReport(imei string) FileReportInput {
	return FileReportInput{
		IMEI:               imei,
		IncidentType:       "robbery",
		IncidentDate:       "2024-05-30",
		IncidentTime:       "21:15",
		Location:           "Ikeja, Lagos",
		Description:        "Phone snatched at the bus stop",
		PoliceReportNumber: "LAG/2024/0042",
	}
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) IsNotFound(err error) bool {
	args := m.Called(err)
	return args.Bool(0)
}

type MockStatusMarker struct {
	mock.Mock
}

func (m *MockStatusMarker) MarkStolen(ctx context.Context, imei string) (bool, error) {
	args := m.Called(ctx, imei)
	return args.Bool(0), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByOwnerID(ctx context.Context, ownerID string) (*entity.Profile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) CreateIfAbsent(ctx context.Context, profile *entity.Profile) (bool, error) {
	args := m.Called(ctx, profile)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
