package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SessionTTL is the fixed validity window of an issued session token
const SessionTTL = 7 * 24 * time.Hour

// Common errors
var (
	ErrMissingSecret  = errors.New("session secret is not configured")
	ErrInvalidSession = errors.New("invalid session")
)

// sessionClaims is the wire form of a session.
// tid is omitted for superadmins that are not scoped to a tenant.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID   string  `json:"uid"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	TenantID *string `json:"tid,omitempty"`
}

// SessionCodec signs and verifies stateless session tokens (HS256).
// Verification is pure: any failure yields no session, never an error.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
	parser *jwt.Parser
}

// SessionCodecOption configures a SessionCodec
type SessionCodecOption func(*SessionCodec)

// WithClock overrides the time source used for issuing and expiry checks
func WithClock(now func() time.Time) SessionCodecOption {
	return func(c *SessionCodec) {
		c.now = now
	}
}

// WithCodecLogger sets the logger used for debug output on rejected tokens
func WithCodecLogger(logger *zap.Logger) SessionCodecOption {
	return func(c *SessionCodec) {
		c.logger = logger
	}
}

// NewSessionCodec creates a codec from the session config.
// It refuses to build without a secret.
func NewSessionCodec(cfg config.SessionConfig, opts ...SessionCodecOption) (*SessionCodec, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrMissingSecret
	}

	c := &SessionCodec{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	if c.ttl <= 0 {
		c.ttl = SessionTTL
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)

	return c, nil
}

// TTL returns the validity window of issued tokens
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Issue serializes the session into a signed token that expires TTL from now
func (c *SessionCodec) Issue(session identity.Session) (string, time.Time, error) {
	if err := session.Validate(); err != nil {
		return "", time.Time{}, fmt.Errorf("issue session: %w", err)
	}

	now := c.now()
	expiresAt := now.Add(c.ttl)

	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   session.UserID,
		Email:    session.Email,
		Role:     session.Role.String(),
		TenantID: session.TenantID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}

	return token, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded session.
// Malformed, forged, expired or otherwise invalid tokens yield (nil, false).
func (c *SessionCodec) Verify(token string) (*identity.Session, bool) {
	session, err := c.decode(token)
	if err != nil {
		c.logger.Debug("session token rejected", zap.Error(err))
		return nil, false
	}
	return session, true
}

func (c *SessionCodec) decode(token string) (*identity.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims := &sessionClaims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidSession
	}

	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	tenantID := ""
	if claims.TenantID != nil {
		tenantID = *claims.TenantID
	}
	session := identity.NewSession(claims.UserID, claims.Email, role, tenantID)
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	return &session, nil
}
