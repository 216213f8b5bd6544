package config

import (
	"errors"

	"github.com/yoockh/gigmatch/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or alters the relational schema. Order matters: every
// table is created after the tables it references.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("postgres is not initialized; call InitPostgres() first")
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Profile{},
		&models.JobPost{},
		&models.Match{},
		&models.Application{},
	)
}
