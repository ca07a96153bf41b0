package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxRealIPKey = "real_ip"

// forwardHeaders in trust order. CF-Connecting-IP carries a single address,
// X-Forwarded-For holds the client in its left-most entry.
var forwardHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For"}

// RealIP resolves the originating client address behind proxies and stores it
// in the context for rate-limit keys and access logs.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxRealIPKey, resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	for _, h := range forwardHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		first, _, _ := strings.Cut(v, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
