package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// clearEnv blanks every variable the tests touch; viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvSessionSecret,
		EnvAllowedOrigins,
		"AGENTDESK_SESSION_SECRET",
		"AGENTDESK_ORIGIN_ALLOWED_ORIGINS",
		"AGENTDESK_APP_ENV",
		"AGENTDESK_APP_PORT",
		"AGENTDESK_DATABASE_DRIVER",
		"AGENTDESK_DATABASE_SSLMODE",
		"AGENTDESK_RATELIMIT_STORE",
		"AGENTDESK_RATELIMIT_ENABLED",
		"AGENTDESK_COOKIE_SECURE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("fails without session secret", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), EnvSessionSecret)
	})

	t.Run("loads defaults when only the secret is set", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvSessionSecret, "dev-secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "agentdesk", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "dev-secret", cfg.Session.Secret)
		assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
		assert.Equal(t, "auth_token", cfg.Cookie.Name)
		assert.Equal(t, "/", cfg.Cookie.Path)
		assert.False(t, cfg.Cookie.Secure)
		assert.Empty(t, cfg.Origin.AllowedOrigins)
		assert.True(t, cfg.RateLimit.Enabled)
		assert.Equal(t, "memory", cfg.RateLimit.Store)

		login, ok := cfg.RateLimit.Bucket(BucketLogin)
		require.True(t, ok)
		read, ok := cfg.RateLimit.Bucket(BucketRead)
		require.True(t, ok)
		assert.Less(t, login.Max, read.Max, "credential bucket must be stricter than listing")
	})

	t.Run("reads comma separated allowed origins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvSessionSecret, "dev-secret")
		t.Setenv(EnvAllowedOrigins, "https://a.com, https://b.com/app ,,")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.com", "https://b.com/app"}, cfg.Origin.AllowedOrigins)
	})

	t.Run("prefixed environment overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AGENTDESK_SESSION_SECRET", "prefixed-secret")
		t.Setenv("AGENTDESK_APP_PORT", "9000")
		t.Setenv("AGENTDESK_DATABASE_DRIVER", "sqlite")
		t.Setenv("AGENTDESK_RATELIMIT_STORE", "redis")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "prefixed-secret", cfg.Session.Secret)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "redis", cfg.RateLimit.Store)
	})

	t.Run("production forces secure cookie and long secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AGENTDESK_APP_ENV", "production")
		t.Setenv("AGENTDESK_DATABASE_SSLMODE", "require")
		t.Setenv(EnvSessionSecret, "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")

		t.Setenv(EnvSessionSecret, testSecret)
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Cookie.Secure)
	})
}

func TestFromViper_Buckets(t *testing.T) {
	clearEnv(t)

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[session]
secret = "file-secret"

[origin]
allowed_origins = ["https://a.com", "https://widget.a.com"]

[ratelimit.buckets.login]
max = 3

[ratelimit.buckets.export]
max = 2
window = "10m"
`)))

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.Session.Secret)
	assert.Equal(t, []string{"https://a.com", "https://widget.a.com"}, cfg.Origin.AllowedOrigins)

	login, _ := cfg.RateLimit.Bucket(BucketLogin)
	assert.Equal(t, BucketConfig{Max: 3, Window: time.Minute}, login)

	export, ok := cfg.RateLimit.Bucket("export")
	require.True(t, ok)
	assert.Equal(t, BucketConfig{Max: 2, Window: 10 * time.Minute}, export)
}

func TestFromViper_TelemetryAndBootstrap(t *testing.T) {
	clearEnv(t)

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[session]
secret = "file-secret"

[telemetry]
logs_enabled = true
db_tracing = true

[telemetry.profiling]
enabled = true
server_address = "http://pyroscope:4040"

[swagger]
enabled = true
allowed_ips = ["10.0.0.0/8", "127.0.0.1"]

[bootstrap]
superadmin_email = "root@example.com"
superadmin_password = "correct horse"
`)))

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Telemetry.LogsEnabled)
	assert.True(t, cfg.Telemetry.DBTracing)
	assert.Equal(t, ProfilingConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, cfg.Telemetry.Profiling)
	assert.Equal(t, SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "127.0.0.1"}}, cfg.Swagger)
	assert.True(t, cfg.Bootstrap.Enabled())
	assert.Equal(t, "root@example.com", cfg.Bootstrap.SuperadminEmail)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Session: SessionConfig{Secret: "s"}, RateLimit: RateLimitConfig{Buckets: defaultBuckets()}}
		applyDefaults(cfg)
		return cfg
	}

	require.NoError(t, valid().validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing secret", func(c *Config) { c.Session.Secret = "" }, EnvSessionSecret},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"unknown store", func(c *Config) { c.RateLimit.Store = "memcached" }, "ratelimit.store"},
		{"zero bucket max", func(c *Config) { c.RateLimit.Buckets["x"] = BucketConfig{Max: 0, Window: time.Second} }, "max must be positive"},
		{"zero bucket window", func(c *Config) { c.RateLimit.Buckets["x"] = BucketConfig{Max: 1} }, "window must be positive"},
		{"idle over open", func(c *Config) { c.Database.MaxIdleConns = 100 }, "max_idle_conns"},
		{"sampling ratio", func(c *Config) { c.Telemetry.SamplingRatio = 2 }, "sampling_ratio"},
		{"profiling without address", func(c *Config) { c.Telemetry.Profiling.Enabled = true }, "profiling.server_address"},
		{"bootstrap email only", func(c *Config) { c.Bootstrap.SuperadminEmail = "root@example.com" }, "must be set together"},
		{"open swagger in production", func(c *Config) {
			c.App.Env = "production"
			c.Session.Secret = strings.Repeat("s", 32)
			c.Database.SSLMode = "require"
			c.Swagger.Enabled = true
		}, "swagger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(nil))
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitList([]any{"a", " b "}))
	assert.Equal(t, []string{"a"}, splitList([]string{"a", ""}))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "agentdesk", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/agentdesk?sslmode=disable", d.DSN())
}
