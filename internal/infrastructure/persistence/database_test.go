package persistence

import (
	"context"
	"testing"

	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(
		config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
		WithLogger(zap.NewNop(), gormlogger.Silent),
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDatabase_SQLite(t *testing.T) {
	db := newTestDatabase(t)

	assert.NoError(t, db.Ping(context.Background()))
	for _, table := range []string{"tenants", "users", "agents"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	db, err := NewDatabase(config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "mysql")
}

func TestNewDatabase_WithTracing(t *testing.T) {
	db, err := NewDatabase(
		config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
		WithTracing(true),
	)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.AutoMigrate())
	var count int64
	assert.NoError(t, db.DB.Table("agents").Count(&count).Error)
}
