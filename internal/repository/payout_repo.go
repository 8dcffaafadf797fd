package repository

import (
	"context"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayoutRepository interface {
	Create(ctx context.Context, payout *model.Payout) error
	ListByProject(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.Payout, int64, error)
	SumByProject(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, int, error)
	SumAll(ctx context.Context) (decimal.Decimal, error)
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Create(ctx context.Context, payout *model.Payout) error {
	return GetDB(ctx, r.db).Create(payout).Error
}

func (r *payoutRepository) ListByProject(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.Payout, int64, error) {
	var payouts []model.Payout
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Payout{}).Where("project_id = ?", projectID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&payouts).Error; err != nil {
		return nil, 0, err
	}

	return payouts, total, nil
}

func (r *payoutRepository) SumByProject(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, int, error) {
	var result struct {
		Value string
		Count int
	}
	err := GetDB(ctx, r.db).Model(&model.Payout{}).
		Select("COALESCE(CAST(SUM(amount) AS TEXT), '0') as value, COUNT(*) as count").
		Where("project_id = ?", projectID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, 0, err
	}

	total, err := decimal.NewFromString(result.Value)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return total, result.Count, nil
}

func (r *payoutRepository) SumAll(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Value string
	}
	err := GetDB(ctx, r.db).Model(&model.Payout{}).
		Select("COALESCE(CAST(SUM(amount) AS TEXT), '0') as value").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(result.Value)
}
