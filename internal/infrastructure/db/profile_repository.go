package db

import (
	"context"

	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/domain"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type profileRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepository(db *gorm.DB, log *logger.Logger) ports.ProfileRepository {
	return &profileRepository{db: db, log: log}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		r.log.Errorw("profile_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Profile, error) {
	res := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		r.log.Errorw("profile_repo_update_failed", "id", id, "error", res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	r.log.Infow("profile_repo_update_ok", "id", id)
	return &profile, nil
}
