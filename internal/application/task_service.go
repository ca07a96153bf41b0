package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rakapradana/tasknest/internal/domain/entity"
	"github.com/rakapradana/tasknest/internal/domain/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("not authorized to access this task")
)

// TaskService implements per-user task CRUD with ownership enforcement.
type TaskService struct {
	Repo   repository.TaskRepository
	Logger *logrus.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: repo, Logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

// Create stores a new task. The owner is always the authenticated requester,
// never client input; status and priority default when omitted.
func (s *TaskService) Create(ctx context.Context, owner primitive.ObjectID, in CreateTaskInput) (*entity.Task, error) {
	t := &entity.Task{
		Title:    strings.TrimSpace(in.Title),
		Status:   entity.StatusPending,
		Priority: entity.PriorityMedium,
		DueDate:  in.DueDate,
		Owner:    owner,
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

type ListTasksQuery struct {
	Status   string
	Priority string
	Search   string
	Sort     string
}

// List returns the requester's tasks. Unrecognized status or priority filter
// values are ignored rather than rejected; that permissiveness is deliberate.
func (s *TaskService) List(ctx context.Context, owner primitive.ObjectID, q ListTasksQuery) ([]entity.Task, error) {
	f := repository.TaskFilter{Owner: owner, Search: q.Search, Sort: q.Sort}
	if entity.ValidStatus(q.Status) {
		f.Status = q.Status
	}
	if entity.ValidPriority(q.Priority) {
		f.Priority = q.Priority
	}
	return s.Repo.Find(ctx, f)
}

// Get fetches a task and enforces ownership. A missing id and a foreign owner
// are reported as distinct failures.
func (s *TaskService) Get(ctx context.Context, requester, id primitive.ObjectID) (*entity.Task, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.Owner != requester {
		return nil, ErrNotTaskOwner
	}
	return t, nil
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	DueDateSet  bool
}

// Update overwrites only the fields explicitly provided. DueDateSet marks an
// explicit value (including null, which clears the date); owner and id are
// immutable.
func (s *TaskService) Update(ctx context.Context, requester, id primitive.ObjectID, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.Get(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDateSet {
		t.DueDate = in.DueDate
	}

	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the task permanently after the same existence and ownership
// checks as Get.
func (s *TaskService) Delete(ctx context.Context, requester, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, requester, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
