package handler

import (
	appagent "github.com/agentdesk/backend/internal/application/agent"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/agentdesk/backend/internal/interfaces/http/dto"
	"github.com/agentdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CreateAgentRequest is the create-agent body
type CreateAgentRequest struct {
	TenantID string `json:"tenantId" binding:"omitempty,tenantid"`
	Name     string `json:"name" binding:"required,max=120"`
}

// AgentHandler serves the tenant-scoped agent routes
type AgentHandler struct {
	BaseHandler
	service *appagent.Service
}

// NewAgentHandler creates a new agent handler. metrics may be nil.
func NewAgentHandler(service *appagent.Service, metrics *telemetry.AccessMetrics) *AgentHandler {
	return &AgentHandler{BaseHandler: BaseHandler{metrics: metrics}, service: service}
}

// List godoc
// @Summary      List agents
// @Description  Agents in the caller's tenant. A superadmin may omit tenantId to list every tenant.
// @Tags         agents
// @Produce      json
// @Param        tenantId query string false "Tenant ID"
// @Success      200 {object} dto.Response{data=[]agent.Agent}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Security     CookieAuth
// @Router       /agents [get]
func (h *AgentHandler) List(c *gin.Context) {
	var q dto.TenantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	agents, err := h.service.List(c.Request.Context(), middleware.GetSession(c), q.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, agents)
}

// Create godoc
// @Summary      Create agent
// @Description  Adds an agent to the scoped tenant. A superadmin must name the tenant.
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        request body CreateAgentRequest true "Agent"
// @Success      201 {object} dto.Response{data=agent.Agent}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Security     CookieAuth
// @Router       /agents [post]
func (h *AgentHandler) Create(c *gin.Context) {
	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), middleware.GetSession(c), appagent.CreateAgentInput{
		TenantID: req.TenantID,
		Name:     req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// Delete godoc
// @Summary      Delete agent
// @Description  The tenant comes from the tenantId query parameter; a superadmin must always supply it.
// @Tags         agents
// @Produce      json
// @Param        id path string true "Agent ID"
// @Param        tenantId query string false "Tenant ID"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Security     CookieAuth
// @Router       /agents/{id} [delete]
func (h *AgentHandler) Delete(c *gin.Context) {
	var q dto.TenantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.GetSession(c), q.TenantID, c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}
