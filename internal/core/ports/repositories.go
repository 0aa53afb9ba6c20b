package ports

import (
	"context"

	"github.com/NoelOsiro/tuma-task-api/internal/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, limit, offset int) ([]domain.Task, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Task, error)
	Delete(ctx context.Context, id string) (*domain.Task, error)
	Search(ctx context.Context, query string) ([]domain.Task, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Profile, error)
}
