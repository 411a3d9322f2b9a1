package db

import (
	"fmt"

	"github.com/sunpack/boxline/internal/config"
	"github.com/sunpack/boxline/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns every GORM model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Job{},
		&models.JobPlanning{},
		&models.JobStep{},
		&models.StepMachine{},
		&models.Machine{},
		&models.UserMachine{},
		&models.ActionLog{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedMachines upserts Machine rows from configuration.
func SeedMachines(db *gorm.DB, machines []config.MachineConfig) error {
	for _, mc := range machines {
		machine := models.Machine{
			ID:     mc.ID,
			Code:   mc.Code,
			Type:   mc.Type,
			Active: true,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "type", "active"}),
		}).Create(&machine)
		if result.Error != nil {
			return fmt.Errorf("db: seed machine %q: %w", mc.ID, result.Error)
		}
	}
	return nil
}
