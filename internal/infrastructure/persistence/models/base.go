package models

import "time"

// BaseModel provides the id and timestamps shared by all tables.
// IDs are strings so tenant ids can be caller-chosen slugs.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TenantModel is embedded by every tenant-owned table
type TenantModel struct {
	BaseModel
	TenantID string `gorm:"type:varchar(64);not null;index"`
}

// All returns every model, in dependency order, for auto-migration
func All() []any {
	return []any{
		&TenantRecord{},
		&UserModel{},
		&AgentModel{},
	}
}
