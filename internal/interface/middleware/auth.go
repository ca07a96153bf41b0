package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rakapradana/tasknest/internal/domain/entity"
	"github.com/rakapradana/tasknest/internal/domain/repository"
	"github.com/rakapradana/tasknest/pkg/helpers"
	"github.com/rakapradana/tasknest/pkg/response"
)

const ctxUserKey = "currentUser"

// Auth authenticates the bearer token from the Authorization header, resolves
// the user behind it with a single store lookup, and attaches the user
// (password stripped) to the request context.
func Auth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, no token provided")
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, token invalid")
			return
		}
		uid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, token invalid")
			return
		}

		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "User not found")
			return
		}
		u.Password = "" // the hash never travels past the gate

		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// AdminOnly requires the attached user to carry the admin role. It assumes
// Auth ran earlier in the chain.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok || !u.IsAdmin() {
			response.Abort(c, http.StatusForbidden, "Access denied. Admin only.")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer") {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
