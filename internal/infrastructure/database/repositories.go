package database

import (
	"github.com/smartrogo/safephoneng/internal/adapter/repository"
	"github.com/smartrogo/safephoneng/internal/config"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Device      domainRepo.DeviceRepository
	TheftReport domainRepo.TheftReportRepository
	Profile     domainRepo.ProfileRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Device:      repository.NewDeviceRepository(db, logger),
		TheftReport: repository.NewTheftReportRepository(db),
		Profile:     repository.NewProfileRepository(db),
	}
}

// NewMemoryRepositories backs every repository with one in-process store.
func NewMemoryRepositories() *Repositories {
	store := repository.NewMemoryStore()
	return &Repositories{
		Device:      store.Devices(),
		TheftReport: store.TheftReports(),
		Profile:     store.Profiles(),
	}
}

// Open connects the configured driver and returns its repositories. db is nil
// for the memory driver.
func Open(cfg *config.DatabaseConfig, logger *zap.Logger) (repos *Repositories, db *gorm.DB, err error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return NewMemoryRepositories(), nil, nil
	}

	db, err = NewConnection(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AutoMigrate {
		if err := Migrate(db, logger); err != nil {
			_ = Close(db, logger)
			return nil, nil, err
		}
	}
	return NewRepositories(db, logger), db, nil
}
