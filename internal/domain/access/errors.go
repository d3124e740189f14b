package access

import (
	"net/http"

	"github.com/agentdesk/backend/internal/domain/shared"
)

// Error codes surfaced to API clients
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeRateLimited     = "RATE_LIMITED"
	CodeOriginRejected  = "ORIGIN_REJECTED"
)

// Rejections. The 401 message is deliberately generic so callers cannot tell
// a forged token from an expired or missing one.
var (
	ErrUnauthenticated = shared.NewDomainErrorWithStatus(CodeUnauthenticated,
		"Authentication required", http.StatusUnauthorized)

	ErrForbidden = shared.NewDomainErrorWithStatus(CodeForbidden,
		"Access to this resource is forbidden", http.StatusForbidden)

	ErrTenantMismatch = shared.NewDomainErrorWithStatus(CodeForbidden,
		"You do not have access to this tenant", http.StatusForbidden)

	ErrTenantRequired = shared.NewDomainErrorWithStatus(CodeForbidden,
		"An explicit tenantId is required for this operation", http.StatusForbidden)

	ErrNoTenant = shared.NewDomainErrorWithStatus(CodeForbidden,
		"Your account is not assigned to a tenant", http.StatusForbidden)

	ErrSuperadminRequired = shared.NewDomainErrorWithStatus(CodeForbidden,
		"Superadmin access required", http.StatusForbidden)

	ErrRateLimited = shared.NewDomainErrorWithStatus(CodeRateLimited,
		"Too many requests. Please try again later.", http.StatusTooManyRequests)

	ErrOriginRejected = shared.NewDomainErrorWithStatus(CodeOriginRejected,
		"Request origin is not allowed", http.StatusForbidden)
)

// StatusOf returns the HTTP status for an access rejection
func StatusOf(err error) int {
	return shared.StatusOf(err)
}
