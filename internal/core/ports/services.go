package ports

import (
	"context"
	"io"

	"github.com/NoelOsiro/tuma-task-api/internal/domain"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Location    domain.JSONB
	Reward      *float64
	CreatedBy   string
	AssignedTo  string
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Location    domain.JSONB
	Reward      *float64
	AssignedTo  *string
}

type TaskService interface {
	ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (*domain.Task, error)
	SearchTasks(ctx context.Context, query string) ([]domain.Task, error)
}

type OnboardingInput struct {
	Onboarding bool
	FullName   string
	Phone      string
	AvatarPath string
}

type SignedAvatar struct {
	SignedURL string
	Path      string
	ExpiresIn int
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	CompleteOnboarding(ctx context.Context, userID string, input OnboardingInput) (*domain.Profile, error)
	AvatarURL(ctx context.Context, userID string, ttlSeconds int) (*SignedAvatar, error)
}

type StorageService interface {
	SaveAvatar(ctx context.Context, userID, filename string, content io.Reader) (string, error)
	SignedURL(path string, ttlSeconds int) (*SignedAvatar, error)
	Verify(bucket, path string, expires int64, signature string) error
	Open(path string) (io.ReadCloser, error)
}
