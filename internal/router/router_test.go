package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rakapradana/tasknest/config"
	"github.com/rakapradana/tasknest/internal/infrastructure/memstore"
	"github.com/rakapradana/tasknest/pkg/helpers"
	"github.com/rakapradana/tasknest/pkg/response"
	"github.com/rakapradana/tasknest/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine := gin.New()
	engine.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found")
	})

	reg := NewRegistry(engine)
	InitModules(reg, Deps{
		Cfg:    &config.Config{AppName: "tasknest", Env: "test"},
		Logger: logger,
		Users:  memstore.NewUserRepository(),
		Tasks:  memstore.NewTaskRepository(),
		JWT:    helpers.NewJWTManager("test-secret", time.Hour),
	})
	reg.RegisterAll()
	return engine
}

func request(t *testing.T, r *gin.Engine, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func signup(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()
	code, body := request(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	if code != http.StatusCreated {
		t.Fatalf("signup %s: status = %d, body = %v", email, code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("signup %s: no token in %v", email, body)
	}
	return token
}

func TestSignupLoginAndOwnership(t *testing.T) {
	r := newTestServer(t)

	annToken := signup(t, r, "Ann", "ann@example.com", "hunter2")

	// wrong password is indistinguishable from unknown email
	code, body := request(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "ann@example.com", "password": "wrong",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("bad login: status = %d", code)
	}
	if body["message"] != "Invalid credentials" {
		t.Fatalf("bad login: message = %v", body["message"])
	}

	code, body = request(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "ann@example.com", "password": "hunter2",
	})
	if code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %v", code, body)
	}
	if body["success"] != true || body["message"] != "Login successful" {
		t.Fatalf("login envelope = %v", body)
	}

	code, body = request(t, r, http.MethodPost, "/api/v1/tasks", annToken, gin.H{
		"title": "Buy milk",
	})
	if code != http.StatusCreated {
		t.Fatalf("create task: status = %d, body = %v", code, body)
	}
	task, ok := body["task"].(map[string]any)
	if !ok {
		t.Fatalf("create task: no task in %v", body)
	}
	if task["status"] != "pending" || task["priority"] != "medium" {
		t.Fatalf("task defaults = %v/%v, want pending/medium", task["status"], task["priority"])
	}
	taskID, _ := task["id"].(string)
	if taskID == "" {
		t.Fatalf("create task: no id in %v", task)
	}

	benToken := signup(t, r, "Ben", "ben@example.com", "hunter2")

	code, body = request(t, r, http.MethodDelete, "/api/v1/tasks/"+taskID, benToken, nil)
	if code != http.StatusForbidden {
		t.Fatalf("cross-user delete: status = %d, body = %v", code, body)
	}
	if body["message"] != "Not authorized to delete this task" {
		t.Fatalf("cross-user delete: message = %v", body["message"])
	}

	// the task survives the denied delete
	code, _ = request(t, r, http.MethodGet, "/api/v1/tasks/"+taskID, annToken, nil)
	if code != http.StatusOK {
		t.Fatalf("get after denied delete: status = %d", code)
	}

	code, _ = request(t, r, http.MethodDelete, "/api/v1/tasks/"+taskID, annToken, nil)
	if code != http.StatusOK {
		t.Fatalf("owner delete: status = %d", code)
	}
	code, body = request(t, r, http.MethodGet, "/api/v1/tasks/"+taskID, annToken, nil)
	if code != http.StatusNotFound || body["message"] != "Task not found" {
		t.Fatalf("get after delete: status = %d, body = %v", code, body)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	r := newTestServer(t)

	signup(t, r, "Ann", "ann@example.com", "hunter2")

	code, body := request(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name": "Ann Again", "email": "Ann@Example.com", "password": "hunter2",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	if body["message"] != "User already exists with this email" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestValidationMessages(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Ann", "ann@example.com", "hunter2")

	tests := []struct {
		name    string
		method  string
		path    string
		token   string
		payload gin.H
		want    string
	}{
		{"signup missing name", http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "x@y.com", "password": "hunter2"}, "Name is required"},
		{"signup blank name", http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": "   ", "email": "x@y.com", "password": "hunter2"}, "Name is required"},
		{"signup bad email", http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": "X", "email": "nope", "password": "hunter2"}, "Please enter a valid email"},
		{"signup short password", http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": "X", "email": "x@y.com", "password": "abc"}, "Password must be at least 6 characters"},
		{"task missing title", http.MethodPost, "/api/v1/tasks", token, gin.H{"description": "no title"}, "Title is required"},
		{"task blank title", http.MethodPost, "/api/v1/tasks", token, gin.H{"title": "   "}, "Title is required"},
		{"task bad status", http.MethodPost, "/api/v1/tasks", token, gin.H{"title": "T", "status": "done"}, "Invalid status"},
		{"task bad priority", http.MethodPost, "/api/v1/tasks", token, gin.H{"title": "T", "priority": "urgent"}, "Invalid priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := request(t, r, tt.method, tt.path, tt.token, tt.payload)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %v", code, body)
			}
			if body["message"] != tt.want {
				t.Fatalf("message = %v, want %q", body["message"], tt.want)
			}
		})
	}
}

func TestProfileRoundTrip(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Ann", "ann@example.com", "hunter2")

	code, body := request(t, r, http.MethodGet, "/api/v1/me", token, nil)
	if code != http.StatusOK {
		t.Fatalf("get me: status = %d, body = %v", code, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "ann@example.com" || user["role"] != "user" {
		t.Fatalf("profile = %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password present in profile payload")
	}

	code, body = request(t, r, http.MethodPut, "/api/v1/me", token, gin.H{"name": "Ann B."})
	if code != http.StatusOK {
		t.Fatalf("update me: status = %d, body = %v", code, body)
	}
	user, _ = body["user"].(map[string]any)
	if user["name"] != "Ann B." || user["email"] != "ann@example.com" {
		t.Fatalf("updated profile = %v", user)
	}
}

func TestUpdateProfileBlankFields(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Ann", "ann@example.com", "hunter2")

	// a blank name is treated as not provided
	for _, name := range []string{"", "   "} {
		code, body := request(t, r, http.MethodPut, "/api/v1/me", token, gin.H{"name": name})
		if code != http.StatusOK {
			t.Fatalf("name %q: status = %d, body = %v", name, code, body)
		}
		user, _ := body["user"].(map[string]any)
		if user["name"] != "Ann" {
			t.Fatalf("name %q: profile name = %v, want Ann", name, user["name"])
		}
	}

	// a blank email is rejected, not skipped
	for _, email := range []string{"", "   "} {
		code, body := request(t, r, http.MethodPut, "/api/v1/me", token, gin.H{"email": email})
		if code != http.StatusBadRequest || body["message"] != "Please enter a valid email" {
			t.Fatalf("email %q: status = %d, body = %v", email, code, body)
		}
	}
}

func TestChangePasswordFlow(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Ann", "ann@example.com", "hunter2")

	code, body := request(t, r, http.MethodPut, "/api/v1/auth/password", token, gin.H{
		"currentPassword": "wrong", "newPassword": "newpass1",
	})
	if code != http.StatusUnauthorized || body["message"] != "Current password is incorrect" {
		t.Fatalf("wrong current password: status = %d, body = %v", code, body)
	}

	code, _ = request(t, r, http.MethodPut, "/api/v1/auth/password", token, gin.H{
		"currentPassword": "hunter2", "newPassword": "newpass1",
	})
	if code != http.StatusOK {
		t.Fatalf("change password: status = %d", code)
	}

	code, _ = request(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "ann@example.com", "password": "hunter2",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("old password still accepted: status = %d", code)
	}
	code, _ = request(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "ann@example.com", "password": "newpass1",
	})
	if code != http.StatusOK {
		t.Fatalf("new password rejected: status = %d", code)
	}
}

func TestTaskListAndFilters(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Ann", "ann@example.com", "hunter2")

	for _, p := range []gin.H{
		{"title": "Pay rent", "priority": "high"},
		{"title": "Buy milk"},
		{"title": "Ship release", "status": "in-progress", "priority": "high"},
	} {
		if code, body := request(t, r, http.MethodPost, "/api/v1/tasks", token, p); code != http.StatusCreated {
			t.Fatalf("seed task %v: status = %d, body = %v", p, code, body)
		}
	}

	code, body := request(t, r, http.MethodGet, "/api/v1/tasks", token, nil)
	if code != http.StatusOK {
		t.Fatalf("list: status = %d", code)
	}
	if body["count"] != float64(3) {
		t.Fatalf("count = %v, want 3", body["count"])
	}

	code, body = request(t, r, http.MethodGet, "/api/v1/tasks?priority=high", token, nil)
	if code != http.StatusOK || body["count"] != float64(2) {
		t.Fatalf("priority filter: status = %d, count = %v", code, body["count"])
	}

	code, body = request(t, r, http.MethodGet, "/api/v1/tasks?search=MILK", token, nil)
	if code != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("search filter: status = %d, count = %v", code, body["count"])
	}

	// unknown filter values are ignored, not an error
	code, body = request(t, r, http.MethodGet, "/api/v1/tasks?status=bogus", token, nil)
	if code != http.StatusOK || body["count"] != float64(3) {
		t.Fatalf("bogus filter: status = %d, count = %v", code, body["count"])
	}
}

func TestUnmatchedRoute(t *testing.T) {
	r := newTestServer(t)

	code, body := request(t, r, http.MethodGet, "/api/v1/nope", "", nil)
	if code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
	if body["success"] != false || body["message"] != "Route not found" {
		t.Fatalf("envelope = %v", body)
	}
}

func TestInvalidTaskID(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Ann", "ann@example.com", "hunter2")

	code, body := request(t, r, http.MethodGet, "/api/v1/tasks/not-an-id", token, nil)
	if code != http.StatusBadRequest || body["message"] != "Invalid task ID" {
		t.Fatalf("status = %d, body = %v", code, body)
	}
}
