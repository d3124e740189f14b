package identity

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// TenantService handles tenant administration. Every operation is
// superadmin-only.
type TenantService struct {
	tenantRepo identity.TenantRepository
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo identity.TenantRepository, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// List returns every tenant
func (s *TenantService) List(ctx context.Context, session *identity.Session) ([]*identity.Tenant, error) {
	if _, err := access.RequireSuperadmin(session); err != nil {
		return nil, err
	}
	return s.tenantRepo.FindAll(ctx)
}

// Create registers a tenant
func (s *TenantService) Create(ctx context.Context, session *identity.Session, input CreateTenantInput) (*identity.Tenant, error) {
	if _, err := access.RequireSuperadmin(session); err != nil {
		return nil, err
	}

	tenant, err := identity.NewTenant(input.ID, input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID),
		zap.String("created_by", session.UserID),
	)
	return tenant, nil
}
