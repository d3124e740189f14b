package models

import "github.com/agentdesk/backend/internal/domain/agent"

// AgentModel is the persistence model for agent.Agent
type AgentModel struct {
	TenantModel
	Name      string `gorm:"type:varchar(480);not null"`
	CreatedBy string `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (AgentModel) TableName() string {
	return "agents"
}

// ToDomain converts the model to a domain agent
func (m *AgentModel) ToDomain() *agent.Agent {
	return &agent.Agent{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// AgentModelFromDomain builds a model from a domain agent
func AgentModelFromDomain(a *agent.Agent) *AgentModel {
	return &AgentModel{
		TenantModel: TenantModel{
			BaseModel: BaseModel{ID: a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.CreatedAt},
			TenantID:  a.TenantID,
		},
		Name:      a.Name,
		CreatedBy: a.CreatedBy,
	}
}
