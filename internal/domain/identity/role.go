package identity

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a session can carry.
// The zero value is not a valid role.
type Role uint8

const (
	roleUnknown Role = iota
	RoleSuperadmin
	RoleAdmin
	RoleUser
)

// Wire names, as stored in user records and token claims
const (
	roleSuperadminName = "superadmin"
	roleAdminName      = "admin"
	roleUserName       = "user"
)

// ParseRole converts a wire name into a Role
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case roleSuperadminName:
		return RoleSuperadmin, nil
	case roleAdminName:
		return RoleAdmin, nil
	case roleUserName:
		return RoleUser, nil
	default:
		return roleUnknown, fmt.Errorf("unknown role %q", s)
	}
}

// String returns the wire name of the role
func (r Role) String() string {
	switch r {
	case RoleSuperadmin:
		return roleSuperadminName
	case RoleAdmin:
		return roleAdminName
	case RoleUser:
		return roleUserName
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the declared roles
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// IsSuperadmin reports whether the role bypasses tenant confinement
func (r Role) IsSuperadmin() bool {
	return r == RoleSuperadmin
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
