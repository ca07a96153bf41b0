package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxRequestIDKey = "request_id"

// RequestID tags each request with an id for log correlation. An inbound
// X-Request-ID from a trusted proxy is reused, otherwise a fresh one is minted.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID, or "" before it ran.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}
