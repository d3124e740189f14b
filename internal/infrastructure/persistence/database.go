package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/agentdesk/backend/internal/infrastructure/persistence/models"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

type dbOptions struct {
	logger   *zap.Logger
	logLevel gormlogger.LogLevel
	tracing  bool
}

// Option configures NewDatabase
type Option func(*dbOptions)

// WithLogger routes gorm logging through zap at the given gorm level
func WithLogger(l *zap.Logger, level gormlogger.LogLevel) Option {
	return func(o *dbOptions) {
		o.logger = l
		o.logLevel = level
	}
}

// WithTracing registers the otelgorm plugin. Query variables never reach spans.
func WithTracing(enabled bool) Option {
	return func(o *dbOptions) {
		o.tracing = enabled
	}
}

// NewDatabase opens a postgres or sqlite connection according to cfg
func NewDatabase(cfg config.DatabaseConfig, opts ...Option) (*Database, error) {
	o := dbOptions{logger: zap.NewNop(), logLevel: gormlogger.Silent}
	for _, opt := range opts {
		opt(&o)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "", "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(o.logger, o.logLevel, slowQueryThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != "sqlite",
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if o.tracing {
		if err := db.Use(otelgorm.NewPlugin(otelgorm.WithoutQueryVariables())); err != nil {
			return nil, fmt.Errorf("failed to register otelgorm: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// an in-memory database exists per connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate creates or updates the tables of every model.
// Production postgres deployments use cmd/migrate instead.
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
