package handler

import (
	"errors"
	"net/http"

	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/agentdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errUnauthenticated guards handlers mounted without RequireSession
var errUnauthenticated = access.ErrUnauthenticated

// BaseHandler provides common handler utilities.
// metrics may be nil.
type BaseHandler struct {
	metrics *telemetry.AccessMetrics
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinKeyRequestID)))
}

// HandleError maps err to a response. Domain errors carry their own status
// and message; anything else is logged and reported as a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := domainErr.HTTPStatus()
		if status == http.StatusForbidden || status == http.StatusUnauthorized {
			c.Set(logger.GinKeyReject, domainErr.Code)
		}
		if status == http.StatusForbidden {
			h.metrics.RecordRejection(c.Request.Context(), telemetry.RejectForbidden, "")
		}
		h.Error(c, status, domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
}
