package migration

import (
	"github.com/coralcms/coral-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the revision engine tables.
// AutoMigrate creates missing tables and indexes, existing ones are skipped.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Document{},
		&domain.Revision{},
	)
}
