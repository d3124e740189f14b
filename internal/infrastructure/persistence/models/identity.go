package models

import (
	"github.com/agentdesk/backend/internal/domain/identity"
)

// TenantRecord is the persistence model for identity.Tenant
type TenantRecord struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (TenantRecord) TableName() string {
	return "tenants"
}

// ToDomain converts the record to a domain tenant
func (m *TenantRecord) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// TenantRecordFromDomain builds a record from a domain tenant
func TenantRecordFromDomain(t *identity.Tenant) *TenantRecord {
	return &TenantRecord{
		BaseModel: BaseModel{ID: t.ID, CreatedAt: t.CreatedAt, UpdatedAt: t.CreatedAt},
		Name:      t.Name,
	}
}

// UserModel is the persistence model for identity.User.
// TenantID is nullable because superadmins may not belong to a tenant.
type UserModel struct {
	BaseModel
	Email        string  `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	Role         string  `gorm:"type:varchar(20);not null"`
	TenantID     *string `gorm:"type:varchar(64);index"`
	Active       bool    `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user.
// A stored role that no longer parses is surfaced as an error.
func (m *UserModel) ToDomain() (*identity.User, error) {
	role, err := identity.ParseRole(m.Role)
	if err != nil {
		return nil, err
	}
	return &identity.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         role,
		TenantID:     m.TenantID,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// UserModelFromDomain builds a model from a domain user
func UserModelFromDomain(u *identity.User) *UserModel {
	return &UserModel{
		BaseModel:    BaseModel{ID: u.ID, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt},
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role.String(),
		TenantID:     u.TenantID,
		Active:       u.Active,
	}
}
