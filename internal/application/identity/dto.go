package identity

import (
	"time"

	"github.com/agentdesk/backend/internal/domain/identity"
)

// LoginInput contains the credentials submitted to Login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the signed session of a successful login.
// The token is handed to the cookie carrier, never to the response body.
type LoginResult struct {
	Session   identity.Session
	Token     string
	ExpiresAt time.Time
}

// CreateTenantInput contains input for creating a tenant
type CreateTenantInput struct {
	ID   string
	Name string
}
