package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/persistence/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAgents(t *testing.T, repo *GormAgentRepository) map[string]*agent.Agent {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seeded := map[string]*agent.Agent{}
	for i, s := range []struct{ tenant, name string }{
		{"t1", "support"},
		{"t2", "sales"},
		{"t1", "billing"},
	} {
		a, err := agent.NewAgent(s.tenant, s.name, "u-1")
		require.NoError(t, err)
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), a))
		seeded[s.name] = a
	}
	return seeded
}

func names(agents []*agent.Agent) []string {
	out := make([]string, len(agents))
	for i, a := range agents {
		out[i] = a.Name
	}
	return out
}

func TestGormAgentRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAgentRepository(newTestDatabase(t).DB)
	seedAgents(t, repo)

	user := identity.NewSession("u-1", "u@t1.example.com", identity.RoleUser, "t1")
	root := identity.NewSession("s-1", "root@example.com", identity.RoleSuperadmin, "")

	t.Run("user sees only own tenant", func(t *testing.T) {
		filter, err := access.TenantFilter(&user, "")
		require.NoError(t, err)

		got, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, []string{"support", "billing"}, names(got))
		for _, a := range got {
			assert.Equal(t, "t1", a.TenantID)
		}
	})

	t.Run("superadmin unscoped sees all", func(t *testing.T) {
		filter, err := access.TenantFilter(&root, "")
		require.NoError(t, err)

		got, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, []string{"support", "sales", "billing"}, names(got))
	})

	t.Run("superadmin scoped to t2", func(t *testing.T) {
		filter, err := access.TenantFilter(&root, "t2")
		require.NoError(t, err)

		got, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, []string{"sales"}, names(got))
	})

	t.Run("unknown tenant is empty, not an error", func(t *testing.T) {
		other := "t9"
		got, err := repo.FindAll(ctx, access.Filter{TenantID: &other})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGormAgentRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAgentRepository(newTestDatabase(t).DB)
	seeded := seedAgents(t, repo)
	sales := seeded["sales"]

	t.Run("wrong tenant cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "t1", sales.ID), agent.ErrAgentNotFound)

		t2 := "t2"
		got, err := repo.FindAll(ctx, access.Filter{TenantID: &t2})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("empty tenant is refused", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "", sales.ID), tenant.ErrTenantRequired)
	})

	t.Run("owning tenant deletes", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "t2", sales.ID))
		assert.ErrorIs(t, repo.Delete(ctx, "t2", sales.ID), agent.ErrAgentNotFound)
	})
}

func TestGormAgentRepository_CreateRequiresTenant(t *testing.T) {
	repo := NewGormAgentRepository(newTestDatabase(t).DB)
	err := repo.Create(context.Background(), &agent.Agent{ID: "a", Name: "x"})
	assert.ErrorIs(t, err, tenant.ErrTenantRequired)
}
