package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/rakapradana/tasknest/config"
	"github.com/rakapradana/tasknest/internal/domain/entity"
	"github.com/rakapradana/tasknest/internal/domain/repository"
	"github.com/rakapradana/tasknest/internal/infrastructure/mongodb"
	"github.com/rakapradana/tasknest/pkg/helpers"
)

// Seeds an admin user, a demo user and a few demo tasks. Existing users are
// left untouched, so the tool can run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDB)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	tasks := mongodb.NewTaskRepository(db)

	admin, err := ensureUser(ctx, users, "Admin", cfg.SeedAdminEmail, cfg.SeedAdminPassword, entity.RoleAdmin)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("admin ready: id=%s email=%s\n", admin.ID.Hex(), admin.Email)

	demo, err := ensureUser(ctx, users, "Demo User", "demo@tasknest.local", "demo123", entity.RoleUser)
	if err != nil {
		log.Fatalf("failed to seed demo user: %v", err)
	}
	fmt.Printf("demo user ready: id=%s email=%s\n", demo.ID.Hex(), demo.Email)

	existing, err := tasks.Find(ctx, repository.TaskFilter{Owner: demo.ID})
	if err != nil {
		log.Fatalf("failed to list demo tasks: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("demo tasks already present (%d), skipping\n", len(existing))
		return
	}

	due := time.Now().UTC().Add(72 * time.Hour)
	samples := []entity.Task{
		{Title: "Plan the week", Description: "Collect everything scattered across notes", Status: entity.StatusPending, Priority: entity.PriorityMedium, Owner: demo.ID},
		{Title: "Review pull requests", Status: entity.StatusInProgress, Priority: entity.PriorityHigh, DueDate: &due, Owner: demo.ID},
		{Title: "Archive old boards", Status: entity.StatusCompleted, Priority: entity.PriorityLow, Owner: demo.ID},
	}
	for i := range samples {
		if err := tasks.Create(ctx, &samples[i]); err != nil {
			log.Fatalf("failed to seed task %q: %v", samples[i].Title, err)
		}
	}
	fmt.Printf("seeded %d demo tasks\n", len(samples))
}

func ensureUser(ctx context.Context, users repository.UserRepository, name, email, password, role string) (*entity.User, error) {
	if u, err := users.GetByEmail(ctx, email); err == nil {
		return u, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: name, Email: email, Password: hash, Role: role}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
