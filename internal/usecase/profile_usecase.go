package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"go.uber.org/zap"
)

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	FullName    string `json:"full_name" validate:"required,max=160"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
}

// ProfileUsecase reads and writes the caller's own profile.
type ProfileUsecase struct {
	profileRepo domainRepo.ProfileRepository
	validator   *InputValidator
	logger      *zap.Logger
	now         func() time.Time
}

func NewProfileUsecase(profileRepo domainRepo.ProfileRepository, validator *InputValidator, logger *zap.Logger) *ProfileUsecase {
	return &ProfileUsecase{
		profileRepo: profileRepo,
		validator:   validator,
		logger:      logger,
		now:         time.Now,
	}
}

// GetProfile returns domainErrors.ErrProfileNotFound when the caller has none.
func (u *ProfileUsecase) GetProfile(ctx context.Context, identity *entity.Identity) (*entity.Profile, error) {
	profile, err := u.profileRepo.GetByOwnerID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, domainErrors.ErrProfileNotFound
	}
	return profile, nil
}

func (u *ProfileUsecase) UpsertProfile(ctx context.Context, identity *entity.Identity, input ProfileInput) (*entity.Profile, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	if err := u.validator.Struct(input); err != nil {
		return nil, domainErrors.NewRegistryInvalidError("", err.Error())
	}
	phone, err := u.validator.NormalizePhone(input.PhoneNumber)
	if err != nil {
		return nil, domainErrors.NewRegistryInvalidError("", err.Error())
	}

	now := u.now().UTC()
	profile := &entity.Profile{
		OwnerID:     identity.UserID,
		FullName:    input.FullName,
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	u.logger.Info("Profile saved", zap.String("user_id", identity.UserID))

	saved, err := u.profileRepo.GetByOwnerID(ctx, identity.UserID)
	if err != nil || saved == nil {
		return profile, nil
	}
	return saved, nil
}
