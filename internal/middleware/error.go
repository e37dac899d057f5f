package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MsgInternal is the message of every recovered panic
const MsgInternal = "Intern serverfejl"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Recovery turns a panic into a JSON 500 answer
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Printf("Error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: MsgInternal,
		})
	})
}

// AbortWithError writes the {"error","message"} body and stops the chain
func AbortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}
