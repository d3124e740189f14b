package persistence

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/infrastructure/persistence/models"
	"github.com/agentdesk/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormAgentRepository implements agent.Repository using GORM.
// Reads apply the caller's access.Filter verbatim; writes are pinned to one tenant.
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// FindAll lists agents matching filter, oldest first
func (r *GormAgentRepository) FindAll(ctx context.Context, filter access.Filter) ([]*agent.Agent, error) {
	var rows []models.AgentModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(filter)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	agents := make([]*agent.Agent, len(rows))
	for i := range rows {
		agents[i] = rows[i].ToDomain()
	}
	return agents, nil
}

// Create inserts an agent into its tenant
func (r *GormAgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	if a.TenantID == "" {
		return tenant.ErrTenantRequired
	}
	return translate(r.db.WithContext(ctx).Create(models.AgentModelFromDomain(a)).Error)
}

// Delete removes the agent only if it lives in tenantID. An agent of another
// tenant is indistinguishable from a missing one.
func (r *GormAgentRepository) Delete(ctx context.Context, tenantID, id string) error {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Required(tenantID)).
		Where("id = ?", id).
		Delete(&models.AgentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return agent.ErrAgentNotFound
	}
	return nil
}

var _ agent.Repository = (*GormAgentRepository)(nil)
