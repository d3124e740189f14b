package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/infrastructure/auth"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the only failure a caller of Login ever sees for
// unknown emails, wrong passwords and inactive accounts alike.
var ErrInvalidCredentials = shared.NewDomainErrorWithStatus("INVALID_CREDENTIALS",
	"Invalid email or password", http.StatusUnauthorized)

// Login outcomes recorded on the auth.logins counter
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming burns one bcrypt comparison so that unknown emails take as
// long as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("agentdesk-timing-pad"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo identity.UserRepository
	codec    *auth.SessionCodec
	metrics  *telemetry.AccessMetrics
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service. metrics may be nil.
func NewAuthService(
	userRepo identity.UserRepository,
	codec *auth.SessionCodec,
	metrics *telemetry.AccessMetrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codec:    codec,
		metrics:  metrics,
		logger:   logger,
	}
}

// Login checks the credentials and issues a session token for the user
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			equalizeTiming(input.Password)
			return nil, s.reject(ctx, "unknown_email")
		}
		s.metrics.RecordLogin(ctx, outcomeError)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.VerifyPassword(input.Password) {
		return nil, s.reject(ctx, "wrong_password")
	}
	if !user.Active {
		return nil, s.reject(ctx, "inactive")
	}

	session := user.Session()
	token, expiresAt, err := s.codec.Issue(session)
	if err != nil {
		s.metrics.RecordLogin(ctx, outcomeError)
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.metrics.RecordLogin(ctx, outcomeSuccess)
	s.metrics.RecordSessionIssued(ctx, session.Role.String())
	s.logger.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role.String()),
	)

	return &LoginResult{
		Session:   session,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) reject(ctx context.Context, reason string) error {
	s.metrics.RecordLogin(ctx, outcomeRejected)
	s.logger.Warn("Login rejected", zap.String("reason", reason))
	return ErrInvalidCredentials
}

// EnsureSuperadmin seeds a superadmin when none exists yet.
// It is a no-op once any superadmin is present.
func (s *AuthService) EnsureSuperadmin(ctx context.Context, email, password string) (bool, error) {
	count, err := s.userRepo.CountByRole(ctx, identity.RoleSuperadmin)
	if err != nil {
		return false, fmt.Errorf("count superadmins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	user, err := identity.NewUser(email, password, identity.RoleSuperadmin, "")
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create superadmin: %w", err)
	}

	s.logger.Info("Superadmin seeded", zap.String("user_id", user.ID))
	return true, nil
}
