package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/agentdesk/backend/docs"
	appagent "github.com/agentdesk/backend/internal/application/agent"
	appidentity "github.com/agentdesk/backend/internal/application/identity"
	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/auth"
	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/agentdesk/backend/internal/infrastructure/persistence"
	"github.com/agentdesk/backend/internal/infrastructure/ratelimit"
	"github.com/agentdesk/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "password123"

type testApp struct {
	engine *gin.Engine
	users  *persistence.GormUserRepository
	logins int
}

func newTestConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "agentdesk", Env: "development"},
		Session: config.SessionConfig{Secret: "test-secret-key-at-least-32-chars"},
		Origin:  config.OriginConfig{AllowedOrigins: []string{"https://app.example.com"}},
		RateLimit: config.RateLimitConfig{
			Enabled: true,
			Buckets: map[string]config.BucketConfig{
				config.BucketLogin:   {Max: 5, Window: time.Minute},
				config.BucketSession: {Max: 30, Window: time.Minute},
				config.BucketWrite:   {Max: 30, Window: time.Minute},
				config.BucketRead:    {Max: 120, Window: time.Minute},
			},
		},
		HTTP: config.HTTPConfig{MaxBodySize: 1 << 20},
	}
}

func newTestApp(t *testing.T, opts ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := newTestConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := zap.NewNop()

	db, err := persistence.NewDatabase(
		config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
		persistence.WithLogger(log, gormlogger.Silent),
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	codec, err := auth.NewSessionCodec(cfg.Session)
	require.NoError(t, err)
	carrier := auth.NewCookieCarrier(codec, cfg.Cookie)

	users := persistence.NewGormUserRepository(db.DB)
	tenants := persistence.NewGormTenantRepository(db.DB)
	agents := persistence.NewGormAgentRepository(db.DB)

	engine, err := NewEngine(Dependencies{
		Config:  cfg,
		Logger:  log,
		Carrier: carrier,
		Limiter: ratelimit.NewLimiter(ratelimit.NewMemoryStore()),
		Auth:    handler.NewAuthHandler(appidentity.NewAuthService(users, codec, nil, log), carrier),
		Agents:  handler.NewAgentHandler(appagent.NewService(agents, log), nil),
		Tenants: handler.NewTenantHandler(appidentity.NewTenantService(tenants, log), nil),
		Health:  handler.NewHealthHandler(db),
	})
	require.NoError(t, err)

	ctx := context.Background()
	for _, id := range []string{"t1", "t2"} {
		require.NoError(t, tenants.Create(ctx, &identity.Tenant{ID: id, Name: "Tenant " + id, CreatedAt: time.Now()}))
	}

	return &testApp{engine: engine, users: users}
}

func (a *testApp) seedUser(t *testing.T, email string, role identity.Role, tenantID string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &identity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if tenantID != "" {
		u.TenantID = &tenantID
	}
	require.NoError(t, a.users.Create(context.Background(), u))
}

type call struct {
	method string
	path   string
	body   any
	cookie *http.Cookie
	ip     string
	origin string
}

func (a *testApp) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if c.origin == "" {
		c.origin = "https://app.example.com"
	}
	req.Header.Set("Origin", c.origin)
	if c.ip != "" {
		req.Header.Set("X-Forwarded-For", c.ip)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	a.logins++
	w := a.do(t, call{method: http.MethodPost, path: "/api/v1/auth/login",
		body: map[string]string{"email": email, "password": testPassword}, ip: fmt.Sprintf("10.0.0.%d", a.logins)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	return cookies[0]
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestEngine_UserConfinedToOwnTenant(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "user@t1.example.com", identity.RoleUser, "t1")
	app.seedUser(t, "root@example.com", identity.RoleSuperadmin, "")
	userCookie := app.login(t, "user@t1.example.com")
	rootCookie := app.login(t, "root@example.com")

	w := app.do(t, call{method: http.MethodPost, path: "/api/v1/agents", body: map[string]string{"tenantId": "t2", "name": "x"}, cookie: rootCookie})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = app.do(t, call{method: http.MethodPost, path: "/api/v1/agents", body: map[string]string{"name": "support"}, cookie: userCookie})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("other tenant is forbidden", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/api/v1/agents?tenantId=t2", cookie: userCookie})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ERR_FORBIDDEN", decode(t, w).Error.Code)
	})

	for _, path := range []string{"/api/v1/agents?tenantId=t1", "/api/v1/agents"} {
		t.Run(path, func(t *testing.T) {
			w := app.do(t, call{method: http.MethodGet, path: path, cookie: userCookie})
			require.Equal(t, http.StatusOK, w.Code)

			var agents []struct {
				TenantID string `json:"tenantId"`
				Name     string `json:"name"`
			}
			require.NoError(t, json.Unmarshal(decode(t, w).Data, &agents))
			require.Len(t, agents, 1)
			assert.Equal(t, "t1", agents[0].TenantID)
			assert.Equal(t, "support", agents[0].Name)
		})
	}

	t.Run("superadmin lists every tenant", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/api/v1/agents", cookie: rootCookie})
		require.Equal(t, http.StatusOK, w.Code)
		var agents []json.RawMessage
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &agents))
		assert.Len(t, agents, 2)
	})

	t.Run("me", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/api/v1/auth/me", cookie: userCookie})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decode(t, w).Data), `"tenantId":"t1"`)
	})

	t.Run("user cannot list tenants", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/api/v1/admin/tenants", cookie: userCookie})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = app.do(t, call{method: http.MethodGet, path: "/api/v1/admin/tenants", cookie: rootCookie})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestEngine_SuperadminDeleteNeedsTenant(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "root@example.com", identity.RoleSuperadmin, "")
	rootCookie := app.login(t, "root@example.com")

	w := app.do(t, call{method: http.MethodPost, path: "/api/v1/agents", body: map[string]string{"tenantId": "t1", "name": "bot"}, cookie: rootCookie})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

	w = app.do(t, call{method: http.MethodDelete, path: "/api/v1/agents/" + created.ID, cookie: rootCookie})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ERR_FORBIDDEN", decode(t, w).Error.Code)

	w = app.do(t, call{method: http.MethodDelete, path: "/api/v1/agents/" + created.ID + "?tenantId=t2", cookie: rootCookie})
	assert.Equal(t, http.StatusNotFound, w.Code, "agent lives in t1")

	w = app.do(t, call{method: http.MethodDelete, path: "/api/v1/agents/" + created.ID + "?tenantId=t1", cookie: rootCookie})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEngine_LoginRateLimit(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "user@t1.example.com", identity.RoleUser, "t1")

	attempt := func(ip string) *httptest.ResponseRecorder {
		return app.do(t, call{method: http.MethodPost, path: "/api/v1/auth/login",
			body: map[string]string{"email": "user@t1.example.com", "password": "wrong-password"}, ip: ip})
	}

	for i := 1; i <= 5; i++ {
		w := attempt("203.0.113.9")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i)
		assert.Equal(t, "ERR_INVALID_CREDENTIALS", decode(t, w).Error.Code)
	}
	for i := 6; i <= 7; i++ {
		w := attempt("203.0.113.9")
		assert.Equal(t, http.StatusTooManyRequests, w.Code, "attempt %d", i)
		assert.Equal(t, "ERR_RATE_LIMITED", decode(t, w).Error.Code)
		assert.Empty(t, w.Header().Get("Retry-After"))
	}

	assert.Equal(t, http.StatusUnauthorized, attempt("198.51.100.4").Code)
}

func TestEngine_LoginFailuresAreIndistinguishable(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "user@t1.example.com", identity.RoleUser, "t1")

	var bodies []string
	for i, creds := range []map[string]string{
		{"email": "user@t1.example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": testPassword},
	} {
		w := app.do(t, call{method: http.MethodPost, path: "/api/v1/auth/login", body: creds, ip: fmt.Sprintf("192.0.2.%d", i+1)})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
		env := decode(t, w)
		bodies = append(bodies, env.Error.Code+"|"+env.Error.Message)
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestEngine_OriginAndSession(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "user@t1.example.com", identity.RoleUser, "t1")

	t.Run("foreign origin cannot log in", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/api/v1/auth/login", origin: "https://evil.com",
			body: map[string]string{"email": "user@t1.example.com", "password": testPassword}})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ERR_ORIGIN_REJECTED", decode(t, w).Error.Code)
	})

	t.Run("no cookie", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/api/v1/agents"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication required", decode(t, w).Error.Message)
	})

	t.Run("anonymous request with a bad body", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/api/v1/agents", body: map[string]string{"tenantId": "NOT VALID"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/api/v1/auth/logout", cookie: app.login(t, "user@t1.example.com")})
		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	})

	t.Run("health", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/api/v1/health"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestEngine_SuperadminCreatesTenant(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "root@example.com", identity.RoleSuperadmin, "")
	app.seedUser(t, "admin@t1.example.com", identity.RoleAdmin, "t1")
	rootCookie := app.login(t, "root@example.com")
	adminCookie := app.login(t, "admin@t1.example.com")

	body := map[string]string{"id": "t3", "name": "  Third  "}

	w := app.do(t, call{method: http.MethodPost, path: "/api/v1/admin/tenants", body: body, cookie: adminCookie})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, call{method: http.MethodPost, path: "/api/v1/admin/tenants", body: body, cookie: rootCookie})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, string(decode(t, w).Data), `"name":"Third"`)

	w = app.do(t, call{method: http.MethodPost, path: "/api/v1/admin/tenants", body: body, cookie: rootCookie})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, call{method: http.MethodPost, path: "/api/v1/admin/tenants",
		body: map[string]string{"id": "bad id", "name": "x"}, cookie: rootCookie})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEngine_Swagger(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		app := newTestApp(t)
		w := app.do(t, call{method: http.MethodGet, path: "/swagger/index.html"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("requires a session", func(t *testing.T) {
		app := newTestApp(t, func(cfg *config.Config) {
			cfg.Swagger = config.SwaggerConfig{Enabled: true, RequireAuth: true}
		})
		app.seedUser(t, "user@t1.example.com", identity.RoleUser, "t1")

		w := app.do(t, call{method: http.MethodGet, path: "/swagger/doc.json"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = app.do(t, call{method: http.MethodGet, path: "/swagger/doc.json", cookie: app.login(t, "user@t1.example.com")})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"/auth/login"`)
		assert.Contains(t, w.Body.String(), `"/agents/{id}"`)
	})
}
