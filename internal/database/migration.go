package database

import (
	"fmt"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Student{},
		&models.Desktop{},
		&models.Session{},
		&models.DesktopPairing{},
		&models.HealthLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
