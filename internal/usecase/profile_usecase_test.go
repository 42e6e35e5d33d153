package usecase

import (
	"context"
	"testing"

	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUsecase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.GetProfile(ctx, alice)
	assert.ErrorIs(t, err, domainErrors.ErrProfileNotFound)

	created, err := env.profiles.UpsertProfile(ctx, alice, ProfileInput{FullName: " Alice Adebayo ", PhoneNumber: "08031234567"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Adebayo", created.FullName)
	assert.Equal(t, "+2348031234567", created.PhoneNumber)

	updated, err := env.profiles.UpsertProfile(ctx, alice, ProfileInput{FullName: "Alice B."})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", updated.FullName)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = env.profiles.GetProfile(ctx, bob)
	assert.ErrorIs(t, err, domainErrors.ErrProfileNotFound)

	_, err = env.profiles.UpsertProfile(ctx, bob, ProfileInput{FullName: ""})
	assert.True(t, domainErrors.IsRegistryError(err, domainErrors.RegistryInvalid))
}

func TestNewCaseNumberIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		n, err := NewCaseNumber()
		require.NoError(t, err)
		require.False(t, seen[n], "duplicate case number %s", n)
		seen[n] = true
	}
}
