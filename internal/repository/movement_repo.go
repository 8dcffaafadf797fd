package repository

import (
	"context"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementRepository appends to and reads the immutable stock audit trail.
// There is deliberately no update or delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	ListByMaterial(ctx context.Context, materialID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error)
}

type movementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *movementRepository) ListByMaterial(ctx context.Context, materialID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockMovement{}).Where("material_id = ?", materialID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}
