package mongodb

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rakapradana/tasknest/internal/domain/entity"
	"github.com/rakapradana/tasknest/internal/domain/repository"
)

const tasksCollection = "tasks"

// sortFields maps API sort names to bson fields. Anything else falls back to
// newest-created-first.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

// sortSpec parses a Mongoose-style sort string ("-createdAt", "title").
func sortSpec(sort string) bson.D {
	dir := 1
	field := strings.TrimSpace(sort)
	if strings.HasPrefix(field, "-") {
		dir = -1
		field = field[1:]
	}
	col, ok := sortFields[field]
	if !ok {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return bson.D{{Key: col, Value: dir}}
}

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(tasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Task, error) {
	t := &entity.Task{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) Find(ctx context.Context, f repository.TaskFilter) ([]entity.Task, error) {
	q := bson.M{"owner": f.Owner}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Priority != "" {
		q["priority"] = f.Priority
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}
	}

	cur, err := r.col.Find(ctx, q, options.Find().SetSort(sortSpec(f.Sort)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	tasks := make([]entity.Task, 0)
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
