package persistence

import (
	"context"
	"fmt"

	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a user; a taken email yields shared.ErrAlreadyExists
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return translate(r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error)
}

// FindByEmail looks a user up by normalized email across all tenants
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error
	if err != nil {
		return nil, translate(err)
	}

	user, err := model.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", model.ID, err)
	}
	return user, nil
}

// ExistsByEmail checks whether the email is taken
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// CountByRole counts users holding role
func (r *GormUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("role = ?", role.String()).
		Count(&count).Error
	return count, err
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
