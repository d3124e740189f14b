package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/agentdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagTenantID is the binding tag that checks the tenant id format
const TagTenantID = "tenantid"

// SetupValidator configures gin's validator: JSON field names in errors and
// the tenantid tag.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return RegisterValidations(v)
}

// RegisterValidations installs the custom tags on v
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	return v.RegisterValidation(TagTenantID, func(fl validator.FieldLevel) bool {
		return identity.ValidateTenantID(fl.Field().String()) == nil
	})
}

// FormatValidationErrors formats binding errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	} else {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "Request body is not valid JSON", requestID)
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 for a binding error
func HandleValidationError(c *gin.Context, err error) {
	c.Set(logger.GinKeyReject, "validation")
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(logger.GinKeyRequestID)))
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case TagTenantID:
		return "Tenant id must be 1-64 letters, digits, '-' or '_'"
	default:
		return "Invalid value"
	}
}
