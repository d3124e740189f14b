package persistence

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository implements identity.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// Create inserts a tenant
func (r *GormTenantRepository) Create(ctx context.Context, tenant *identity.Tenant) error {
	return translate(r.db.WithContext(ctx).Create(models.TenantRecordFromDomain(tenant)).Error)
}

// FindAll lists every tenant ordered by id. Only superadmins reach this.
func (r *GormTenantRepository) FindAll(ctx context.Context) ([]*identity.Tenant, error) {
	var records []models.TenantRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	tenants := make([]*identity.Tenant, len(records))
	for i := range records {
		tenants[i] = records[i].ToDomain()
	}
	return tenants, nil
}

// Exists checks whether a tenant id is registered
func (r *GormTenantRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TenantRecord{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
