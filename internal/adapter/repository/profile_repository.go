package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	"github.com/smartrogo/safephoneng/internal/domain/model"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a GORM backed profile repository.
func NewProfileRepository(db *gorm.DB) domainRepo.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByOwnerID(ctx context.Context, ownerID string) (*entity.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profileModelToEntity(&profile), nil
}

func (r *profileRepository) CreateIfAbsent(ctx context.Context, profile *entity.Profile) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(profileEntityToModel(profile))
	if res.Error != nil {
		return false, fmt.Errorf("failed to create profile: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "phone_number", "updated_at"}),
		}).
		Create(profileEntityToModel(profile)).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
