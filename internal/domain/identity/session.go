package identity

import "strings"

// Session is the authenticated identity attached to a request.
// It is never mutated server-side; a changed role or tenant requires a new login.
type Session struct {
	UserID   string  `json:"userId"`
	Email    string  `json:"email"`
	Role     Role    `json:"role"`
	TenantID *string `json:"tenantId"`
}

// NewSession builds a session; an empty tenantID means "no tenant"
func NewSession(userID, email string, role Role, tenantID string) Session {
	s := Session{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	if tenantID = strings.TrimSpace(tenantID); tenantID != "" {
		s.TenantID = &tenantID
	}
	return s
}

// Tenant returns the session's tenant and whether one is present
func (s Session) Tenant() (string, bool) {
	if s.TenantID == nil || *s.TenantID == "" {
		return "", false
	}
	return *s.TenantID, true
}

// IsSuperadmin reports whether the session carries the superadmin role
func (s Session) IsSuperadmin() bool {
	return s.Role.IsSuperadmin()
}

// Validate checks that the session names a user and a known role.
// A missing tenant is not a structural error; the access policy rejects it
// on tenant-scoped checks.
func (s Session) Validate() error {
	if s.UserID == "" {
		return ErrSessionMissingUser
	}
	if !s.Role.Valid() {
		return ErrSessionInvalidRole
	}
	return nil
}
