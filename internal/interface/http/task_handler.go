package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rakapradana/tasknest/internal/application"
	"github.com/rakapradana/tasknest/internal/interface/middleware"
	"github.com/rakapradana/tasknest/pkg/response"
	"github.com/rakapradana/tasknest/pkg/validation"
)

type TaskHandler struct {
	Service *application.TaskService
	Logger  *logrus.Logger
}

func NewTaskHandler(service *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Service: service, Logger: logger}
}

// NullableTime distinguishes an absent JSON field from an explicit null, so a
// null due date clears the stored value while an omitted one leaves it alone.
type NullableTime struct {
	Set  bool
	Time *time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Time = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	n.Time = &t
	return nil
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,notblank,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate" binding:"omitempty"`
}

// Create POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	requester, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.FirstMessage(err))
		return
	}

	t, err := h.Service.Create(c.Request.Context(), requester.ID, application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create task failed")
		response.Error(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	response.Success(c, http.StatusCreated, "Task created successfully", gin.H{"task": t})
}

// List GET /api/v1/tasks?status&priority&search&sort
func (h *TaskHandler) List(c *gin.Context) {
	requester, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}

	tasks, err := h.Service.List(c.Request.Context(), requester.ID, application.ListTasksQuery{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Sort:     c.DefaultQuery("sort", "-createdAt"),
	})
	if err != nil {
		h.Logger.WithError(err).Error("list tasks failed")
		response.Error(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	response.Success(c, http.StatusOK, "Tasks retrieved successfully", gin.H{
		"count": len(tasks),
		"tasks": tasks,
	})
}

// Get GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	requester, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	t, err := h.Service.Get(c.Request.Context(), requester.ID, id)
	if err != nil {
		h.taskError(c, err, "Not authorized to access this task")
		return
	}

	response.Success(c, http.StatusOK, "Task retrieved successfully", gin.H{"task": t})
}

type UpdateTaskRequest struct {
	Title       *string      `json:"title" binding:"omitempty,max=100"`
	Description *string      `json:"description" binding:"omitempty,max=500"`
	Status      *string      `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	Priority    *string      `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     NullableTime `json:"dueDate"`
}

// Update PUT /api/v1/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	requester, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.FirstMessage(err))
		return
	}

	t, err := h.Service.Update(c.Request.Context(), requester.ID, id, application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate.Time,
		DueDateSet:  req.DueDate.Set,
	})
	if err != nil {
		h.taskError(c, err, "Not authorized to update this task")
		return
	}

	response.Success(c, http.StatusOK, "Task updated successfully", gin.H{"task": t})
}

// Delete DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	requester, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.Service.Delete(c.Request.Context(), requester.ID, id); err != nil {
		h.taskError(c, err, "Not authorized to delete this task")
		return
	}

	response.Success(c, http.StatusOK, "Task deleted successfully", nil)
}

// taskError maps task service failures onto the envelope. Missing ids and
// foreign owners stay distinguishable.
func (h *TaskHandler) taskError(c *gin.Context, err error, forbiddenMsg string) {
	switch {
	case errors.Is(err, application.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, application.ErrNotTaskOwner):
		response.Error(c, http.StatusForbidden, forbiddenMsg)
	default:
		h.Logger.WithError(err).Error("task operation failed")
		response.Error(c, http.StatusInternalServerError, "Something went wrong!")
	}
}
