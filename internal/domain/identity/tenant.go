package identity

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
)

var tenantIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]{0,63}$`)

// Tenant errors
var (
	ErrInvalidTenantID   = shared.NewDomainErrorWithStatus("INVALID_TENANT_ID", "Tenant id must be 1-64 letters, digits, '-' or '_'", http.StatusBadRequest)
	ErrInvalidTenantName = shared.NewDomainErrorWithStatus("INVALID_TENANT_NAME", "Tenant name must be 1-200 characters", http.StatusBadRequest)
)

// Tenant is an isolated customer account
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTenant creates a tenant with a caller-chosen id
func NewTenant(id, name string) (*Tenant, error) {
	if err := ValidateTenantID(id); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, ErrInvalidTenantName
	}
	return &Tenant{ID: id, Name: name, CreatedAt: time.Now()}, nil
}

// ValidateTenantID checks the tenant id format
func ValidateTenantID(id string) error {
	if !tenantIDRegex.MatchString(id) {
		return ErrInvalidTenantID
	}
	return nil
}
