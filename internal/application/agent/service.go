// Package agent exposes the tenant-scoped agent operations. Each operation
// obtains its scope from the access policy before touching the repository.
package agent

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// CreateAgentInput is the payload for creating an agent
type CreateAgentInput struct {
	TenantID string
	Name     string
}

// Service handles agent operations
type Service struct {
	repo   agent.Repository
	logger *zap.Logger
}

// NewService creates a new agent service
func NewService(repo agent.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the agents visible to session. requestedTenantID may be empty.
func (s *Service) List(ctx context.Context, session *identity.Session, requestedTenantID string) ([]*agent.Agent, error) {
	filter, err := access.TenantFilter(session, requestedTenantID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, filter)
}

// Create adds an agent to the scoped tenant
func (s *Service) Create(ctx context.Context, session *identity.Session, input CreateAgentInput) (*agent.Agent, error) {
	scope, err := access.AuthorizeWrite(session, input.TenantID)
	if err != nil {
		return nil, err
	}

	a, err := agent.NewAgent(scope.Tenant(), input.Name, session.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Agent created",
		zap.String("agent_id", a.ID),
		zap.String("tenant_id", a.TenantID),
	)
	return a, nil
}

// Delete removes an agent from the scoped tenant. An agent owned by another
// tenant is reported as not found.
func (s *Service) Delete(ctx context.Context, session *identity.Session, requestedTenantID, id string) error {
	scope, err := access.AuthorizeWrite(session, requestedTenantID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, scope.Tenant(), id); err != nil {
		return err
	}

	s.logger.Info("Agent deleted",
		zap.String("agent_id", id),
		zap.String("tenant_id", scope.Tenant()),
	)
	return nil
}
