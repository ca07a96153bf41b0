package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rakapradana/tasknest/config"
	"github.com/rakapradana/tasknest/internal/application"
	"github.com/rakapradana/tasknest/internal/domain/repository"
	handlers "github.com/rakapradana/tasknest/internal/interface/http"
	"github.com/rakapradana/tasknest/internal/router/modules"
	"github.com/rakapradana/tasknest/pkg/helpers"
)

// Deps carries every constructed dependency the modules need. It is built
// once in main; nothing here lives in package-level state.
type Deps struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Users  repository.UserRepository
	Tasks  repository.TaskRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Pub    *helpers.RabbitPublisher
}

// InitModules wires services, handlers and feature modules into the registry.
// It should be called once during application startup.
func InitModules(r *Registry, d Deps) {
	authSvc := application.NewAuthService(d.Users, d.JWT, d.Logger)
	taskSvc := application.NewTaskService(d.Tasks, d.Logger)

	authHandler := handlers.NewAuthHandler(authSvc, d.Logger, d.Cfg, d.Pub)
	userHandler := handlers.NewUserHandler(authSvc, d.Logger)
	taskHandler := handlers.NewTaskHandler(taskSvc, d.Logger)

	r.Add(modules.NewAuthModule(authHandler, d.Users, d.JWT, d.Redis))
	r.Add(modules.NewUserModule(userHandler, d.Users, d.JWT, d.Redis))
	r.Add(modules.NewTaskModule(taskHandler, d.Users, d.JWT, d.Redis))
}
