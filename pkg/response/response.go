package response

import (
	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same flat envelope:
// {"success": bool, "message": string, ...extra fields}.

// Body builds the envelope map without writing it, so middleware and tests
// can inspect what would go on the wire.
func Body(success bool, message string, extra gin.H) gin.H {
	body := gin.H{"success": success, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

// Success writes a success envelope with optional extra top-level fields.
func Success(c *gin.Context, status int, message string, extra gin.H) {
	c.JSON(status, Body(true, message, extra))
}

// Error writes a failure envelope.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Body(false, message, nil))
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Body(false, message, nil))
}
