package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/rakapradana/tasknest/internal/domain/repository"
	handlers "github.com/rakapradana/tasknest/internal/interface/http"
	"github.com/rakapradana/tasknest/internal/interface/middleware"
	"github.com/rakapradana/tasknest/pkg/helpers"
)

// AuthModule wires the auth endpoints.
// Public: POST /auth/signup, POST /auth/login
// Protected: PUT /auth/password
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	signupLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	// Protected password change with a per-user limit
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/auth/password", m.Handler.ChangePassword)
	}
}
