package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rakapradana/tasknest/internal/domain/entity"
)

// TaskFilter narrows a Find to one owner plus optional criteria.
// Status and Priority are exact matches; Search is a case-insensitive
// substring match against title or description. Sort is a field name with an
// optional leading "-" for descending order (default "-createdAt").
type TaskFilter struct {
	Owner    primitive.ObjectID
	Status   string
	Priority string
	Search   string
	Sort     string
}

// TaskRepository defines the interface for task-related store operations.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Task, error)
	Find(ctx context.Context, f TaskFilter) ([]entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
