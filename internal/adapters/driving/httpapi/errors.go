// Package httpapi is the HTTP backend for the in-page chat widget.
//
// Each widget opens a session for the page it is embedded in, then sends
// activation, questions and escalation requests against that session.
// Sessions live in memory until deleted or the server stops.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// ErrMissingSessions is returned when no session service is provided.
var ErrMissingSessions = errors.New("httpapi: session service is required")

// Error codes.
const (
	ErrBadRequestCode = "BAD_REQUEST"
	ErrForbiddenCode  = "FORBIDDEN"
	ErrNotFoundCode   = "NOT_FOUND"
	ErrUpstreamCode   = "UPSTREAM_ERROR"
	ErrInternalCode   = "INTERNAL_ERROR"
)

// ErrorInfo is the body of every error response.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// respondError writes an error response and aborts the chain.
func respondError(c *gin.Context, status int, code, message string, err error) {
	info := ErrorInfo{Code: code, Message: message}
	if err != nil {
		info.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": info})
}

// respondDomainError maps a domain error to a status code.
func respondDomainError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, ErrNotFoundCode, message, err)
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, ErrBadRequestCode, message, err)
	case errors.Is(err, domain.ErrFetchFailed):
		respondError(c, http.StatusBadGateway, ErrUpstreamCode, message, err)
	default:
		respondError(c, http.StatusInternalServerError, ErrInternalCode, message, err)
	}
}
