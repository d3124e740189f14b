package identity

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt cost for stored password hashes
var passwordCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User errors
var (
	ErrInvalidEmail       = shared.NewDomainErrorWithStatus("INVALID_EMAIL", "Invalid email format", http.StatusBadRequest)
	ErrInvalidPassword    = shared.NewDomainErrorWithStatus("INVALID_PASSWORD", "Password must be 8 to 72 characters", http.StatusBadRequest)
	ErrInvalidRole        = shared.NewDomainErrorWithStatus("INVALID_ROLE", "Role must be superadmin, admin or user", http.StatusBadRequest)
	ErrUserTenantRequired = shared.NewDomainErrorWithStatus("TENANT_REQUIRED", "Admins and users must belong to a tenant", http.StatusBadRequest)
)

// User is a stored account. Admins and users always belong to a tenant;
// superadmins may not.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	TenantID     *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(email, password string, role Role, tenantID string) (*User, error) {
	email = NormalizeEmail(email)
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) < 8 || len(password) > 72 {
		return nil, ErrInvalidPassword
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	u := &User{
		ID:     uuid.NewString(),
		Email:  email,
		Role:   role,
		Active: true,
	}
	if tenantID = strings.TrimSpace(tenantID); tenantID != "" {
		if err := ValidateTenantID(tenantID); err != nil {
			return nil, err
		}
		u.TenantID = &tenantID
	} else if !role.IsSuperadmin() {
		return nil, ErrUserTenantRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hash)

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return u, nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Session returns the session a successful login for this user carries
func (u *User) Session() Session {
	tenantID := ""
	if u.TenantID != nil {
		tenantID = *u.TenantID
	}
	return NewSession(u.ID, u.Email, u.Role, tenantID)
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
