package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes, one per taxonomy class. Every boundary failure is translated
// to one of these; internals (stack traces, SQL, SMTP detail) stay in logs.
const (
	CodeValidation     = "validation_error"
	CodeAuthentication = "authentication_error"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeDependency     = "dependency_error"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondError sends an error response
func RespondError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondSuccess sends a success response
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// MessageResponse is a plain human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
