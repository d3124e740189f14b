package shared

import (
	"errors"
	"net/http"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status the error maps to (500 if unset)
func (e *DomainError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// NewDomainErrorWithStatus creates a domain error carrying an HTTP status
func NewDomainErrorWithStatus(code, message string, status int) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// StatusOf returns the HTTP status of err if it is (or wraps) a DomainError,
// and 500 otherwise.
func StatusOf(err error) int {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Common domain errors
var (
	ErrNotFound      = NewDomainErrorWithStatus("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrAlreadyExists = NewDomainErrorWithStatus("ALREADY_EXISTS", "Resource already exists", http.StatusConflict)
)
