package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rakapradana/tasknest/internal/domain/entity"
	"github.com/rakapradana/tasknest/internal/domain/repository"
)

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]entity.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[primitive.ObjectID]entity.Task)}
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *TaskRepository) Find(_ context.Context, f repository.TaskFilter) ([]entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Task, 0)
	for _, t := range r.tasks {
		if t.Owner != f.Owner {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(t.Title), needle) &&
				!strings.Contains(strings.ToLower(t.Description), needle) {
				continue
			}
		}
		out = append(out, t)
	}
	sortTasks(out, f.Sort)
	return out, nil
}

func (r *TaskRepository) Update(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	r.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

// sortTasks implements the subset of the sort contract the tests rely on:
// createdAt, title, and dueDate orderings with the "-" prefix for descending.
// Unknown fields fall back to newest-created-first.
func sortTasks(tasks []entity.Task, spec string) {
	desc := strings.HasPrefix(spec, "-")
	field := strings.TrimPrefix(spec, "-")

	less := func(a, b entity.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch field {
	case "title":
		less = func(a, b entity.Task) bool { return a.Title < b.Title }
	case "dueDate":
		less = func(a, b entity.Task) bool {
			switch {
			case a.DueDate == nil:
				return b.DueDate != nil
			case b.DueDate == nil:
				return false
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		}
	case "createdAt":
	default:
		desc = true
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if desc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}
