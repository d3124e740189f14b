// Package agent holds the tenant-owned chat agent entity.
package agent

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxNameLength is the longest accepted agent name, in characters
const MaxNameLength = 120

// Agent errors
var (
	ErrAgentNotFound   = shared.NewDomainErrorWithStatus("AGENT_NOT_FOUND", "Agent not found", http.StatusNotFound)
	ErrInvalidName     = shared.NewDomainErrorWithStatus("INVALID_AGENT_NAME", "Agent name must be 1-120 characters", http.StatusBadRequest)
	ErrTenantMandatory = shared.NewDomainErrorWithStatus("TENANT_REQUIRED", "Agent must belong to a tenant", http.StatusBadRequest)
)

// Agent is a chat agent owned by exactly one tenant
type Agent struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAgent creates an agent in tenantID
func NewAgent(tenantID, name, createdBy string) (*Agent, error) {
	if tenantID == "" {
		return nil, ErrTenantMandatory
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, ErrInvalidName
	}
	return &Agent{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}, nil
}
