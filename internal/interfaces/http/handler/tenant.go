package handler

import (
	appidentity "github.com/agentdesk/backend/internal/application/identity"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/agentdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CreateTenantRequest is the create-tenant body
type CreateTenantRequest struct {
	ID   string `json:"id" binding:"required,tenantid"`
	Name string `json:"name" binding:"required,max=200"`
}

// TenantHandler serves the superadmin tenant routes
type TenantHandler struct {
	BaseHandler
	service *appidentity.TenantService
}

// NewTenantHandler creates a new tenant handler. metrics may be nil.
func NewTenantHandler(service *appidentity.TenantService, metrics *telemetry.AccessMetrics) *TenantHandler {
	return &TenantHandler{BaseHandler: BaseHandler{metrics: metrics}, service: service}
}

// List godoc
// @Summary      List tenants
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identity.Tenant}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     CookieAuth
// @Router       /admin/tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.service.List(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenants)
}

// Create godoc
// @Summary      Create tenant
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateTenantRequest true "Tenant"
// @Success      201 {object} dto.Response{data=identity.Tenant}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     CookieAuth
// @Router       /admin/tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tenant, err := h.service.Create(c.Request.Context(), middleware.GetSession(c), appidentity.CreateTenantInput{
		ID:   req.ID,
		Name: req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}
