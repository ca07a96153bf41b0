package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rakapradana/tasknest/config"
	"github.com/rakapradana/tasknest/internal/application"
	"github.com/rakapradana/tasknest/internal/domain/entity"
	"github.com/rakapradana/tasknest/internal/interface/middleware"
	"github.com/rakapradana/tasknest/pkg/helpers"
	"github.com/rakapradana/tasknest/pkg/mailer"
	"github.com/rakapradana/tasknest/pkg/response"
	"github.com/rakapradana/tasknest/pkg/validation"
)

type AuthHandler struct {
	Service *application.AuthService
	Logger  *logrus.Logger
	Cfg     *config.Config
	Pub     *helpers.RabbitPublisher
}

func NewAuthHandler(service *application.AuthService, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *AuthHandler {
	return &AuthHandler{Service: service, Logger: logger, Cfg: cfg, Pub: pub}
}

// userView is the subset of User fields returned to clients.
func userView(u *entity.User) gin.H {
	return gin.H{
		"id":    u.ID.Hex(),
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Signup POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.FirstMessage(err))
		return
	}

	u, token, err := h.Service.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, "User already exists with this email")
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	h.enqueueEmail(c, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name},
	})

	response.Success(c, http.StatusCreated, "User registered successfully", gin.H{
		"token": token,
		"user":  userView(u),
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.FirstMessage(err))
		return
	}

	u, token, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  userView(u),
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.FirstMessage(err))
		return
	}

	err := h.Service.ChangePassword(c.Request.Context(), u.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrWrongPassword):
			response.Error(c, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, "User not found")
		default:
			h.Logger.WithError(err).Error("change password failed")
			response.Error(c, http.StatusInternalServerError, "Something went wrong!")
		}
		return
	}

	h.enqueueEmail(c, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplatePasswordChanged,
		Data:     map[string]any{"Name": u.Name},
	})

	response.Success(c, http.StatusOK, "Password updated successfully", nil)
}

// enqueueEmail publishes a notification job, best-effort. Failures are logged
// and never surfaced to the client.
func (h *AuthHandler) enqueueEmail(c *gin.Context, job mailer.EmailJob) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).WithField("template", job.Template).Warn("email enqueue failed")
	}
}
