package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rakapradana/tasknest/internal/domain/entity"
	"github.com/rakapradana/tasknest/internal/infrastructure/memstore"
)

func newTaskService() *TaskService {
	return NewTaskService(memstore.NewTaskRepository(), nil)
}

func strPtr(s string) *string { return &s }

func TestCreateTaskDefaults(t *testing.T) {
	s := newTaskService()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	task, err := s.Create(ctx, owner, CreateTaskInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != entity.StatusPending {
		t.Fatalf("Status = %q, want %q", task.Status, entity.StatusPending)
	}
	if task.Priority != entity.PriorityMedium {
		t.Fatalf("Priority = %q, want %q", task.Priority, entity.PriorityMedium)
	}
	if task.Owner != owner {
		t.Fatalf("Owner = %s, want %s", task.Owner.Hex(), owner.Hex())
	}
	if task.DueDate != nil {
		t.Fatalf("DueDate = %v, want nil", task.DueDate)
	}

	// Round-trip: get returns the stored fields.
	got, err := s.Get(ctx, owner, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Buy milk" || got.Status != task.Status || got.Priority != task.Priority {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCreateTaskExplicitFields(t *testing.T) {
	s := newTaskService()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	task, err := s.Create(ctx, owner, CreateTaskInput{
		Title:       "Ship release",
		Description: strPtr("cut the branch"),
		Status:      strPtr(entity.StatusInProgress),
		Priority:    strPtr(entity.PriorityHigh),
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != entity.StatusInProgress || task.Priority != entity.PriorityHigh {
		t.Fatalf("explicit enum values not applied: %+v", task)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Fatalf("DueDate = %v, want %v", task.DueDate, due)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	s := newTaskService()
	ctx := context.Background()
	ann := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	task, err := s.Create(ctx, ann, CreateTaskInput{Title: "Ann's task"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.Get(ctx, bob, task.ID); !errors.Is(err, ErrNotTaskOwner) {
		t.Fatalf("Get by non-owner err = %v, want ErrNotTaskOwner", err)
	}
	if _, err := s.Update(ctx, bob, task.ID, UpdateTaskInput{Title: strPtr("stolen")}); !errors.Is(err, ErrNotTaskOwner) {
		t.Fatalf("Update by non-owner err = %v, want ErrNotTaskOwner", err)
	}
	if err := s.Delete(ctx, bob, task.ID); !errors.Is(err, ErrNotTaskOwner) {
		t.Fatalf("Delete by non-owner err = %v, want ErrNotTaskOwner", err)
	}

	// The task is still there and unmodified.
	got, err := s.Get(ctx, ann, task.ID)
	if err != nil {
		t.Fatalf("Get by owner: %v", err)
	}
	if got.Title != "Ann's task" {
		t.Fatalf("Title = %q after denied operations", got.Title)
	}
}

func TestGetMissingTask(t *testing.T) {
	s := newTaskService()
	if _, err := s.Get(context.Background(), primitive.NewObjectID(), primitive.NewObjectID()); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	s := newTaskService()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	task, err := s.Create(ctx, owner, CreateTaskInput{
		Title:       "Original",
		Description: strPtr("keep me"),
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Empty input changes nothing.
	got, err := s.Update(ctx, owner, task.ID, UpdateTaskInput{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Original" || got.Description != "keep me" || got.DueDate == nil {
		t.Fatalf("empty update modified fields: %+v", got)
	}

	// Status moves freely between any two values.
	got, err = s.Update(ctx, owner, task.ID, UpdateTaskInput{Status: strPtr(entity.StatusCompleted)})
	if err != nil {
		t.Fatalf("Update status: %v", err)
	}
	if got.Status != entity.StatusCompleted {
		t.Fatalf("Status = %q", got.Status)
	}
	got, err = s.Update(ctx, owner, task.ID, UpdateTaskInput{Status: strPtr(entity.StatusPending)})
	if err != nil {
		t.Fatalf("Update status back: %v", err)
	}
	if got.Status != entity.StatusPending {
		t.Fatalf("Status = %q", got.Status)
	}

	// Explicit empty description overwrites; explicit null due date clears.
	got, err = s.Update(ctx, owner, task.ID, UpdateTaskInput{
		Description: strPtr(""),
		DueDateSet:  true,
	})
	if err != nil {
		t.Fatalf("Update clearing: %v", err)
	}
	if got.Description != "" {
		t.Fatalf("Description = %q, want empty", got.Description)
	}
	if got.DueDate != nil {
		t.Fatalf("DueDate = %v, want nil", got.DueDate)
	}
	if got.Title != "Original" {
		t.Fatalf("Title changed: %q", got.Title)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTaskService()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	task, err := s.Create(ctx, owner, CreateTaskInput{Title: "Temp"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, owner, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, owner, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("task still present after delete: %v", err)
	}
}

func TestListScopedToOwner(t *testing.T) {
	s := newTaskService()
	ctx := context.Background()
	ann := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	for _, in := range []struct {
		owner primitive.ObjectID
		in    CreateTaskInput
	}{
		{ann, CreateTaskInput{Title: "Buy milk"}},
		{ann, CreateTaskInput{Title: "Write report", Status: strPtr(entity.StatusCompleted), Priority: strPtr(entity.PriorityHigh)}},
		{bob, CreateTaskInput{Title: "Bob's secret plan"}},
	} {
		if _, err := s.Create(ctx, in.owner, in.in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tasks, err := s.List(ctx, ann, ListTasksQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.Owner != ann {
			t.Fatalf("foreign task leaked into the listing: %+v", task)
		}
	}
}

func TestListFilters(t *testing.T) {
	s := newTaskService()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	seed := []CreateTaskInput{
		{Title: "Buy milk"},
		{Title: "Write report", Description: strPtr("the quarterly numbers"), Status: strPtr(entity.StatusCompleted), Priority: strPtr(entity.PriorityHigh)},
		{Title: "Call plumber", Status: strPtr(entity.StatusInProgress)},
	}
	for _, in := range seed {
		if _, err := s.Create(ctx, owner, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		name  string
		query ListTasksQuery
		want  int
	}{
		{"status filter", ListTasksQuery{Status: entity.StatusCompleted}, 1},
		{"priority filter", ListTasksQuery{Priority: entity.PriorityHigh}, 1},
		{"invalid status ignored", ListTasksQuery{Status: "archived"}, 3},
		{"invalid priority ignored", ListTasksQuery{Priority: "urgent"}, 3},
		{"search title", ListTasksQuery{Search: "MILK"}, 1},
		{"search description", ListTasksQuery{Search: "Quarterly"}, 1},
		{"search no match", ListTasksQuery{Search: "zzz"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := s.List(ctx, owner, tt.query)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(tasks) != tt.want {
				t.Fatalf("len = %d, want %d", len(tasks), tt.want)
			}
		})
	}
}

func TestListDefaultSortNewestFirst(t *testing.T) {
	s := newTaskService()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := s.Create(ctx, owner, CreateTaskInput{Title: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	tasks, err := s.List(ctx, owner, ListTasksQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d, want 3", len(tasks))
	}
	if tasks[0].Title != "third" || tasks[2].Title != "first" {
		t.Fatalf("default order is not newest-first: %q, %q, %q", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}

	byTitle, err := s.List(ctx, owner, ListTasksQuery{Sort: "title"})
	if err != nil {
		t.Fatalf("List sorted: %v", err)
	}
	if byTitle[0].Title != "first" || byTitle[2].Title != "third" {
		t.Fatalf("title sort wrong: %q, %q, %q", byTitle[0].Title, byTitle[1].Title, byTitle[2].Title)
	}
}
