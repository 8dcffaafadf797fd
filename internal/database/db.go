package database

import (
	"log"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Engineer{},
		&model.RoleAssignment{},
		&model.Project{},
		&model.Unit{},
		&model.Task{},
		&model.Material{},
		&model.StockMovement{},
		&model.MaterialRequest{},
		&model.MaterialRequestItem{},
		&model.Payout{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
