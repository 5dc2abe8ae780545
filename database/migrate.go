package database

import (
	"delego_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate brings the schema up to date. Order matters: referenced tables
// first so foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Quote{},
		&models.Message{},
		&models.ProposalFile{},
		&models.ClosureFile{},
		&models.Review{},
	)
}
