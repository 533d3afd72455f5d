package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response structure. Used for error
// paths that aren't part of the core HTTP contract in spec §6 (currently
// the panic-recovery response in internal/middleware); that contract is
// HTML/raw-bytes, handled directly by internal/handlers.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// SendError sends an error response with a specific status code.
func SendError(c *gin.Context, code int, message string, err error) {
	var errDetails interface{}
	if err != nil {
		errDetails = err.Error()
		c.Error(err)
	}

	c.AbortWithStatusJSON(code, Response{
		Success: false,
		Message: message,
		Error:   errDetails,
	})
}

// SendInternalError sends a 500 Internal Server Error.
func SendInternalError(c *gin.Context, err error) {
	SendError(c, http.StatusInternalServerError, "Internal server error", err)
}
