package identity

import "context"

// UserRepository persists users. Lookups are global: email is unique
// across tenants.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
}
