package services

import (
	"context"
	"errors"
	"strings"

	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/domain"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type TaskService struct {
	repo ports.TaskRepository
	log  *logger.Logger
}

type TaskServiceConfig struct {
	Repository ports.TaskRepository
	Logger     *logger.Logger
}

func NewTaskService(cfg TaskServiceConfig) *TaskService {
	return &TaskService{repo: cfg.Repository, log: cfg.Logger}
}

func (s *TaskService) ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	tasks, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, ErrTaskInvalidInput
	}
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, ErrTaskInvalidStatus
	}
	if input.Reward != nil && *input.Reward < 0 {
		return nil, ErrTaskNegativeReward
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Location:    input.Location,
		Reward:      input.Reward,
		CreatedBy:   input.CreatedBy,
		AssignedTo:  input.AssignedTo,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.log.Infow("task_create_ok", "id", task.ID, "title", task.Title)
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, input ports.UpdateTaskInput) (*domain.Task, error) {
	if id == "" {
		return nil, ErrTaskInvalidInput
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTaskTitleRequired
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrTaskInvalidStatus
		}
		fields["status"] = *input.Status
	}
	if input.Location != nil {
		fields["location"] = input.Location
	}
	if input.Reward != nil {
		if *input.Reward < 0 {
			return nil, ErrTaskNegativeReward
		}
		fields["reward"] = *input.Reward
	}
	if input.AssignedTo != nil {
		fields["assigned_to"] = *input.AssignedTo
	}

	if len(fields) == 0 {
		// Nothing to change; behave like a read so the caller still gets the row.
		return s.GetTask(ctx, id)
	}

	task, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.log.Infow("task_update_ok", "id", id, "fields", len(fields))
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, ErrTaskInvalidInput
	}
	task, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.log.Infow("task_delete_ok", "id", id)
	return task, nil
}

func (s *TaskService) SearchTasks(ctx context.Context, query string) ([]domain.Task, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Task{}, nil
	}
	tasks, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}
