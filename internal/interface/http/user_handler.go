package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rakapradana/tasknest/internal/application"
	"github.com/rakapradana/tasknest/internal/interface/middleware"
	"github.com/rakapradana/tasknest/pkg/response"
	"github.com/rakapradana/tasknest/pkg/validation"
)

type UserHandler struct {
	Service *application.AuthService
	Logger  *logrus.Logger
}

func NewUserHandler(service *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Service: service, Logger: logger}
}

// GetMe GET /api/v1/me
func (h *UserHandler) GetMe(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}

	u, err := h.Service.GetProfile(c.Request.Context(), current.ID)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "User not found")
			return
		}
		h.Logger.WithError(err).Error("get profile failed")
		response.Error(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	view := userView(u)
	view["createdAt"] = u.CreatedAt.UTC().Format(time.RFC3339)
	response.Success(c, http.StatusOK, "Profile retrieved successfully", gin.H{"user": view})
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=50"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UpdateProfile PUT /api/v1/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.FirstMessage(err))
		return
	}

	// A blank name means "leave it alone"; a blank email is never valid.
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		req.Name = nil
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		response.Error(c, http.StatusBadRequest, "Please enter a valid email")
		return
	}

	u, err := h.Service.UpdateProfile(c.Request.Context(), current.ID, application.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailTaken):
			response.Error(c, http.StatusBadRequest, "Email already in use")
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, "User not found")
		default:
			h.Logger.WithError(err).Error("update profile failed")
			response.Error(c, http.StatusInternalServerError, "Something went wrong!")
		}
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", gin.H{"user": userView(u)})
}
