package handler

import (
	"errors"
	"net/http"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/ai"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope returned by every endpoint
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// badRequest writes a validation failure
func badRequest(c *gin.Context, message string, err error) {
	resp := ErrorResponse{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
	if err != nil {
		resp.Details = stringPtr(err.Error())
	}
	c.JSON(http.StatusBadRequest, resp)
}

// respondServiceError maps service sentinels onto HTTP statuses. The
// AI access sentinel gets its own code so clients can route to a key
// setup screen instead of a generic failure.
func respondServiceError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, ai.ErrAccessNotConfigured):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "AI_ACCESS_NOT_CONFIGURED",
			Message: "AI access is not configured",
		})
	case errors.Is(err, service.ErrScanInProgress):
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "SCAN_IN_PROGRESS",
			Message: "A scan is already in progress",
		})
	case errors.Is(err, service.ErrInvalidScanState):
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "INVALID_SCAN_STATE",
			Message: "The scan flow is not in a state that allows this operation",
		})
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrFlowNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Resource not found",
		})
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrUnsupportedLanguage),
		errors.Is(err, service.ErrInvalidAnswers),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrEmptyItemLabel),
		errors.Is(err, service.ErrUnknownChecklistItem):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: fallbackMessage,
			Details: stringPtr(err.Error()),
		})
	}
}
