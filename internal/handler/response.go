package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agripay/internal/mpesa"
	"agripay/internal/repository"
	"agripay/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var validationErr *service.ValidationError
	var initiationErr *mpesa.InitiationError

	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.As(err, &validationErr),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidAttemptID),
		errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidAccountReference),
		errors.Is(err, service.ErrInvalidTargetID),
		errors.Is(err, service.ErrInvalidCallback):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrPaymentInFlight):
		return http.StatusConflict

	// The provider or its intermediary rejected or was unreachable.
	case errors.As(err, &initiationErr):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
