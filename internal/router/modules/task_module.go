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

// TaskModule wires the task CRUD endpoints. Every route runs behind the auth
// gate; ownership is enforced in the service layer.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewTaskModule(h *handlers.TaskHandler, users repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client) *TaskModule {
	return &TaskModule{Handler: h, Users: users, JWT: jwt, Redis: rdb}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(middleware.Auth(m.Users, m.JWT))
	tasks.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		tasks.POST("", m.Handler.Create)
		tasks.GET("", m.Handler.List)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
