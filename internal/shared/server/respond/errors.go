package respond

import (
	"github.com/gin-gonic/gin"

	"legalaid-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	ErrorType string      `json:"errorType"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, errorType, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"error_type": errorType,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if docID := c.GetString("documentId"); docID != "" {
		fields["document_id"] = docID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			ErrorType: errorType,
			Message:   message,
			Details:   details,
		},
	})
}
