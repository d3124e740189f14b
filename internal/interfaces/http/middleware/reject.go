package middleware

import (
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/agentdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// reject aborts the request with err in the standard envelope and records
// reason for the request log line.
func reject(c *gin.Context, err *shared.DomainError, reason string) {
	c.Set(logger.GinKeyReject, reason)
	c.AbortWithStatusJSON(err.HTTPStatus(),
		dto.NewErrorResponseWithRequestID(err.Code, err.Message, c.GetString(logger.GinKeyRequestID)))
}
