package database

import (
	"github.com/smartrogo/safephoneng/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Profile{},
		&model.DeviceRegistration{},
		&model.TheftReport{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Creating custom indexes...")
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

func createCustomIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_theft_reports_created_at ON theft_reports (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_phone_registrations_active ON phone_registrations (imei_number) WHERE status = 'active'`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	// Status values are constrained in storage as well as in the registry.
	return db.Exec(`DO $$
BEGIN
    IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_phone_registrations_status') THEN
        ALTER TABLE phone_registrations
            ADD CONSTRAINT chk_phone_registrations_status CHECK (status IN ('active', 'stolen'));
    END IF;
END $$;`).Error
}
