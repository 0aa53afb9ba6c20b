package db

import (
	"github.com/NoelOsiro/tuma-task-api/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Task{},
		&domain.Profile{},
	)
	if err != nil {
		return err
	}

	return createCustomIndexes(db)
}

func createCustomIndexes(db *gorm.DB) error {
	// The list and search endpoints always order by created_at descending.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_created_at
		ON tasks (created_at DESC)
	`).Error; err != nil {
		return err
	}

	return nil
}
