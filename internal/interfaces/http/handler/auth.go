package handler

import (
	"time"

	appidentity "github.com/agentdesk/backend/internal/application/identity"
	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/auth"
	"github.com/agentdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=200"`
	Password string `json:"password" binding:"required,max=200"`
}

// SessionResponse describes the caller's session. The token itself is only
// ever sent as a cookie.
type SessionResponse struct {
	UserID    string     `json:"userId"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	TenantID  *string    `json:"tenantId"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func newSessionResponse(s identity.Session) SessionResponse {
	return SessionResponse{
		UserID:   s.UserID,
		Email:    s.Email,
		Role:     s.Role.String(),
		TenantID: s.TenantID,
	}
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	carrier     *auth.CookieCarrier
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, carrier *auth.CookieCarrier) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		carrier:     carrier,
	}
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges credentials for an HttpOnly session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.carrier.Attach(c.Writer, result.Token)
	resp := newSessionResponse(result.Session)
	resp.ExpiresAt = &result.ExpiresAt
	h.Success(c, resp)
}

// Logout godoc
// @Summary      Log out
// @Description  Clears the session cookie. Succeeds with or without a session.
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.carrier.Clear(c.Writer)
	h.Success(c, nil)
}

// Me godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Security     CookieAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		h.HandleError(c, errUnauthenticated)
		return
	}
	h.Success(c, newSessionResponse(*session))
}
