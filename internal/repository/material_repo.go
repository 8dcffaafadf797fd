package repository

import (
	"context"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialRepository interface {
	Create(ctx context.Context, material *model.Material) error
	Update(ctx context.Context, material *model.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	// FindByIDForUpdate locks the material row (SELECT ... FOR UPDATE) so
	// concurrent stock mutations serialize per material.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Material, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Material, int64, error)
	ListLowStock(ctx context.Context) ([]model.Material, error)
	CountAll(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *model.Material) error {
	return GetDB(ctx, r.db).Create(material).Error
}

func (r *materialRepository) Update(ctx context.Context, material *model.Material) error {
	return GetDB(ctx, r.db).Save(material).Error
}

func (r *materialRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var material model.Material
	if err := GetDB(ctx, r.db).First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var material model.Material
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) List(ctx context.Context, page, limit int, search string) ([]model.Material, int64, error) {
	var materials []model.Material
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Material{})
	if search != "" {
		db = db.Where("name ILIKE ? OR name_localized ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&materials).Error; err != nil {
		return nil, 0, err
	}

	return materials, total, nil
}

func (r *materialRepository) ListLowStock(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	if err := GetDB(ctx, r.db).
		Where("current_stock <= min_stock").
		Order("current_stock asc").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Material{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *materialRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Material{}).
		Where("current_stock <= min_stock").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *materialRepository) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Value string
	}
	err := GetDB(ctx, r.db).Model(&model.Material{}).
		Select("COALESCE(CAST(SUM(current_stock * unit_price) AS TEXT), '0') as value").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	value, err := decimal.NewFromString(result.Value)
	if err != nil {
		return decimal.Zero, err
	}
	return value, nil
}
