// Package tenant turns access filters into GORM query scopes.
//
// Repositories never derive the tenant themselves; they receive an
// access.Filter (reads) or an explicit tenant id (writes) and apply it here:
//
//	db.WithContext(ctx).Scopes(tenant.Scope(filter)).Find(&rows)
//	db.WithContext(ctx).Scopes(tenant.Required(tenantID)).Delete(&row, "id = ?", id)
package tenant

import (
	"errors"

	"github.com/agentdesk/backend/internal/domain/access"
	"gorm.io/gorm"
)

// Column is the tenant discriminator shared by every tenant-owned table
const Column = "tenant_id"

// ErrTenantRequired is returned when a write is attempted without a tenant
var ErrTenantRequired = errors.New("tenant_id is required for this operation")

// Scope constrains a query to the filter's tenant.
// The empty filter (superadmin listing) adds no condition.
func Scope(filter access.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.IsEmpty() {
			return db
		}
		return db.Where(Column+" = ?", *filter.TenantID)
	}
}

// Required constrains a query to exactly tenantID. An empty id fails the
// statement instead of widening it to every tenant.
func Required(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == "" {
			_ = db.AddError(ErrTenantRequired)
			return db
		}
		return db.Where(Column+" = ?", tenantID)
	}
}
