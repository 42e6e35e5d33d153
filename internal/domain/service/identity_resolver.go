package service

import (
	"context"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
)

// IdentityResolver turns a bearer credential into an identity. Failures are
// *errors.AuthError values: Missing for an empty credential, Invalid for a
// credential the provider rejects, Unavailable when the provider cannot be asked.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*entity.Identity, error)
}
