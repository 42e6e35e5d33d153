package repository

import (
	"context"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
)

type ProfileRepository interface {
	// GetByOwnerID returns nil, nil when the user has no profile.
	GetByOwnerID(ctx context.Context, ownerID string) (*entity.Profile, error)

	// CreateIfAbsent inserts profile unless one exists for the owner and reports
	// whether it did.
	CreateIfAbsent(ctx context.Context, profile *entity.Profile) (bool, error)

	Upsert(ctx context.Context, profile *entity.Profile) error
}
