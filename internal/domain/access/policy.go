// Package access derives authorization decisions and tenant-scoping filters
// from a verified session.
//
// Every tenant-scoped data operation must obtain its Filter from this package
// and hand it to the persistence layer unmodified. The rules are:
//
//   - a superadmin may act on any explicit tenant; an unscoped listing by a
//     superadmin matches all tenants, but a write always needs an explicit tenant
//   - every other role is confined to its own tenant, and a request for a
//     different tenant is rejected rather than rewritten
//   - a non-superadmin session without a tenant fails every tenant-scoped check
package access

import (
	"strings"

	"github.com/agentdesk/backend/internal/domain/identity"
)

// Scope is the resolved outcome of a successful authorization
type Scope struct {
	Session  *identity.Session
	TenantID *string
}

// Tenant returns the scoped tenant, or "" for the all-tenants scope
func (s Scope) Tenant() string {
	if s.TenantID == nil {
		return ""
	}
	return *s.TenantID
}

// AllTenants reports whether the scope spans every tenant
func (s Scope) AllTenants() bool {
	return s.TenantID == nil
}

// Filter returns the query constraint for this scope
func (s Scope) Filter() Filter {
	return Filter{TenantID: s.TenantID}
}

// Filter is the read-only query constraint derived for one request.
// The zero value matches every tenant.
type Filter struct {
	TenantID *string `json:"tenantId,omitempty"`
}

// IsEmpty reports whether the filter matches every tenant
func (f Filter) IsEmpty() bool {
	return f.TenantID == nil
}

// Authorize resolves the scope for a read or listing operation.
// requestedTenantID may be empty.
func Authorize(session *identity.Session, requestedTenantID string) (Scope, error) {
	return authorize(session, requestedTenantID, false)
}

// AuthorizeWrite resolves the scope for a modification. It differs from
// Authorize only for superadmins, who must name a tenant explicitly.
func AuthorizeWrite(session *identity.Session, requestedTenantID string) (Scope, error) {
	return authorize(session, requestedTenantID, true)
}

// RequireSuperadmin admits only superadmin sessions
func RequireSuperadmin(session *identity.Session) (*identity.Session, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	switch session.Role {
	case identity.RoleSuperadmin:
		return session, nil
	case identity.RoleAdmin, identity.RoleUser:
		return nil, ErrSuperadminRequired
	default:
		return nil, ErrForbidden
	}
}

// TenantFilter derives the query filter for a listing operation.
// It is empty only for a superadmin that did not request a tenant.
func TenantFilter(session *identity.Session, requestedTenantID string) (Filter, error) {
	scope, err := Authorize(session, requestedTenantID)
	if err != nil {
		return Filter{}, err
	}
	return scope.Filter(), nil
}

func authorize(session *identity.Session, requestedTenantID string, write bool) (Scope, error) {
	if session == nil {
		return Scope{}, ErrUnauthenticated
	}
	requested := strings.TrimSpace(requestedTenantID)

	switch session.Role {
	case identity.RoleSuperadmin:
		if requested == "" {
			if write {
				return Scope{}, ErrTenantRequired
			}
			return Scope{Session: session}, nil
		}
		return Scope{Session: session, TenantID: &requested}, nil

	case identity.RoleAdmin, identity.RoleUser:
		own, ok := session.Tenant()
		if !ok {
			return Scope{}, ErrNoTenant
		}
		if requested != "" && requested != own {
			return Scope{}, ErrTenantMismatch
		}
		return Scope{Session: session, TenantID: &own}, nil

	default:
		return Scope{}, ErrForbidden
	}
}
