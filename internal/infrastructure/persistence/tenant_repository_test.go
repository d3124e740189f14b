package persistence

import (
	"context"
	"testing"

	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTenantRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormTenantRepository(newTestDatabase(t).DB)

	for _, id := range []string{"t2", "t1"} {
		tenant, err := identity.NewTenant(id, "Tenant "+id)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tenant))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "t1", all[0].ID)
	assert.Equal(t, "Tenant t1", all[0].Name)

	ok, err := repo.Exists(ctx, "t2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, "t3")
	require.NoError(t, err)
	assert.False(t, ok)

	dup, err := identity.NewTenant("t1", "Again")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
}
