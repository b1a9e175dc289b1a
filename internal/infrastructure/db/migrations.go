package db

import (
	"github.com/followup/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return err
	}

	return createCustomIndexes(db)
}

func createCustomIndexes(db *gorm.DB) error {
	// Serves the today window: range on due_at, filter on status
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_due_status
		ON tasks (due_at, status)
	`).Error
}
