package db

import (
	"context"
	"strings"

	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/domain"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type taskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{db: db, log: log}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Errorw("task_repo_create_failed", "title", task.Title, "error", err)
		return err
	}
	r.log.Infow("task_repo_create_ok", "id", task.ID)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		r.log.Errorw("task_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_failed", "error", err)
		return nil, err
	}
	r.log.Infow("task_repo_list_ok", "count", len(tasks))
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Task, error) {
	res := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		r.log.Errorw("task_repo_update_failed", "id", id, "error", res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var task domain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	r.log.Infow("task_repo_update_ok", "id", id)
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		r.log.Errorw("task_repo_delete_missing", "id", id, "error", err)
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error; err != nil {
		r.log.Errorw("task_repo_delete_failed", "id", id, "error", err)
		return nil, err
	}
	r.log.Infow("task_repo_delete_ok", "id", id)
	return &task, nil
}

func (r *taskRepository) Search(ctx context.Context, query string) ([]domain.Task, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_search_failed", "query", query, "error", err)
		return nil, err
	}
	r.log.Infow("task_repo_search_ok", "query", query, "count", len(tasks))
	return tasks, nil
}
