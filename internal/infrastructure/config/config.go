package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variable names that are read without the AGENTDESK_ prefix
const (
	EnvSessionSecret  = "SESSION_SECRET"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"
)

// Rate-limit bucket names
const (
	BucketLogin   = "login"
	BucketSession = "session"
	BucketRead    = "read"
	BucketWrite   = "write"
	BucketWidget  = "widget"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Cookie    CookieConfig
	Origin    OriginConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
	Swagger   SwaggerConfig
	Bootstrap BootstrapConfig
}

// BootstrapConfig seeds the first superadmin on an empty database.
// Both fields must be set for seeding to happen.
type BootstrapConfig struct {
	SuperadminEmail    string
	SuperadminPassword string
}

// Enabled reports whether a superadmin should be seeded
func (b BootstrapConfig) Enabled() bool {
	return b.SuperadminEmail != "" && b.SuperadminPassword != ""
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the app runs in production mode
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	AutoMigrate     bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SessionConfig holds the signing settings for session tokens
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// CookieConfig holds settings for the session cookie
type CookieConfig struct {
	Name   string
	Domain string // empty = current domain
	Path   string
	Secure bool // forced on in production
}

// OriginConfig holds the origin allow-list.
// An empty list disables the origin check entirely.
type OriginConfig struct {
	AllowedOrigins []string
}

// BucketConfig is the quota for one rate-limit bucket
type BucketConfig struct {
	Max    int
	Window time.Duration
}

// RateLimitConfig holds the rate limiter settings
type RateLimitConfig struct {
	Enabled       bool
	Store         string // memory or redis
	SweepInterval time.Duration
	Buckets       map[string]BucketConfig
}

// Bucket returns the quota for name, and whether it is configured
func (r RateLimitConfig) Bucket(name string) (BucketConfig, bool) {
	b, ok := r.Buckets[name]
	return b, ok
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
}

// SwaggerConfig guards the API documentation endpoint
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool     // a valid session cookie is needed to read the docs
	AllowedIPs  []string // IPs or CIDRs; empty = allow all
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	MetricsEnabled    bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	ExportInterval    time.Duration
	LogsEnabled       bool // bridge zap records to the OTLP logs pipeline
	DBTracing         bool // gorm spans via otelgorm
	Profiling         ProfilingConfig
}

// ProfilingConfig holds Pyroscope continuous profiling settings
type ProfilingConfig struct {
	Enabled       bool
	ServerAddress string
	SpanProfiles  bool // link CPU samples to trace spans
}

// defaultBuckets are the built-in quotas: credential and state-changing
// endpoints get far less headroom than read-only listing.
func defaultBuckets() map[string]BucketConfig {
	return map[string]BucketConfig{
		BucketLogin:   {Max: 5, Window: time.Minute},
		BucketSession: {Max: 30, Window: time.Minute},
		BucketWrite:   {Max: 30, Window: time.Minute},
		BucketRead:    {Max: 120, Window: time.Minute},
		BucketWidget:  {Max: 20, Window: time.Minute},
	}
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables (SESSION_SECRET, ALLOWED_ORIGINS, AGENTDESK_*)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return FromViper(v)
}

// FromViper builds the configuration from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("AGENTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The two core settings keep their bare names
	_ = v.BindEnv("session.secret", EnvSessionSecret, "AGENTDESK_SESSION_SECRET")
	_ = v.BindEnv("origin.allowed_origins", EnvAllowedOrigins, "AGENTDESK_ORIGIN_ALLOWED_ORIGINS")

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
			TTL:    v.GetDuration("session.ttl"),
		},
		Cookie: CookieConfig{
			Name:   v.GetString("cookie.name"),
			Domain: v.GetString("cookie.domain"),
			Path:   v.GetString("cookie.path"),
			Secure: v.GetBool("cookie.secure"),
		},
		Origin: OriginConfig{
			AllowedOrigins: splitList(v.Get("origin.allowed_origins")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       !v.IsSet("ratelimit.enabled") || v.GetBool("ratelimit.enabled"),
			Store:         v.GetString("ratelimit.store"),
			SweepInterval: v.GetDuration("ratelimit.sweep_interval"),
			Buckets:       loadBuckets(v),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: splitList(v.Get("http.trusted_proxies")),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			ExportInterval:    v.GetDuration("telemetry.export_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTracing:         v.GetBool("telemetry.db_tracing"),
			Profiling: ProfilingConfig{
				Enabled:       v.GetBool("telemetry.profiling.enabled"),
				ServerAddress: v.GetString("telemetry.profiling.server_address"),
				SpanProfiles:  v.GetBool("telemetry.profiling.span_profiles"),
			},
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  splitList(v.Get("swagger.allowed_ips")),
		},
		Bootstrap: BootstrapConfig{
			SuperadminEmail:    v.GetString("bootstrap.superadmin_email"),
			SuperadminPassword: v.GetString("bootstrap.superadmin_password"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadBuckets overlays configured buckets on top of the defaults
func loadBuckets(v *viper.Viper) map[string]BucketConfig {
	buckets := defaultBuckets()
	for name := range v.GetStringMap("ratelimit.buckets") {
		b := buckets[name]
		prefix := "ratelimit.buckets." + name
		if v.IsSet(prefix + ".max") {
			b.Max = v.GetInt(prefix + ".max")
		}
		if v.IsSet(prefix + ".window") {
			b.Window = v.GetDuration(prefix + ".window")
		}
		buckets[name] = b
	}
	return buckets
}

// splitList accepts either a list (from TOML) or a comma-separated string
// (from the environment) and returns the trimmed, non-empty entries.
func splitList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
	default:
		parts = strings.Split(fmt.Sprint(val), ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "agentdesk"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "agentdesk"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "agentdesk.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 7 * 24 * time.Hour
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = "auth_token"
	}
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.App.IsProduction() {
		cfg.Cookie.Secure = true
	}
	if cfg.RateLimit.Store == "" {
		cfg.RateLimit.Store = "memory"
	}
	if cfg.RateLimit.SweepInterval == 0 {
		cfg.RateLimit.SweepInterval = 5 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("%s is required", EnvSessionSecret)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl cannot be negative")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("ratelimit.store must be memory or redis, got %q", c.RateLimit.Store)
	}
	for name, b := range c.RateLimit.Buckets {
		if b.Max <= 0 {
			return fmt.Errorf("ratelimit.buckets.%s.max must be positive", name)
		}
		if b.Window <= 0 {
			return fmt.Errorf("ratelimit.buckets.%s.window must be positive", name)
		}
	}

	for _, origin := range c.Origin.AllowedOrigins {
		if _, err := url.Parse(origin); err != nil {
			return fmt.Errorf("invalid allowed origin %q: %w", origin, err)
		}
	}

	if c.App.IsProduction() {
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("%s must be at least 32 characters in production", EnvSessionSecret)
		}
		if c.Database.Driver == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger must be disabled, require auth, or restrict allowed_ips in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.Telemetry.Profiling.Enabled && c.Telemetry.Profiling.ServerAddress == "" {
		return fmt.Errorf("telemetry.profiling.server_address is required when profiling is enabled")
	}

	if (c.Bootstrap.SuperadminEmail == "") != (c.Bootstrap.SuperadminPassword == "") {
		return fmt.Errorf("bootstrap.superadmin_email and bootstrap.superadmin_password must be set together")
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
