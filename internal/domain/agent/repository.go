package agent

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/access"
)

// Repository persists agents. Every read takes the tenant filter produced by
// the access policy and every write names its tenant explicitly.
type Repository interface {
	FindAll(ctx context.Context, filter access.Filter) ([]*Agent, error)
	Create(ctx context.Context, agent *Agent) error
	// Delete removes the agent only if it belongs to tenantID
	Delete(ctx context.Context, tenantID, id string) error
}
