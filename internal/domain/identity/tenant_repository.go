package identity

import "context"

// TenantRepository persists tenants
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	FindAll(ctx context.Context) ([]*Tenant, error)
	Exists(ctx context.Context, id string) (bool, error)
}
