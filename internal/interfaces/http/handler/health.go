package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/agentdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now()}
}

// HealthResponse is the health payload
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports whether the database answers within two seconds
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:   "healthy",
		Database: "ok",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}
