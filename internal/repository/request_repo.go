package repository

import (
	"context"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, request *model.MaterialRequest) error
	CreateItem(ctx context.Context, item *model.MaterialRequestItem) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.MaterialRequest, error)
	Save(ctx context.Context, request *model.MaterialRequest) error
	List(ctx context.Context, status string, page, limit int) ([]model.MaterialRequest, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *model.MaterialRequest) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *requestRepository) CreateItem(ctx context.Context, item *model.MaterialRequestItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *requestRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.MaterialRequest, error) {
	var request model.MaterialRequest
	if err := GetDB(ctx, r.db).Preload("Items").First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) Save(ctx context.Context, request *model.MaterialRequest) error {
	return GetDB(ctx, r.db).Save(request).Error
}

func (r *requestRepository) List(ctx context.Context, status string, page, limit int) ([]model.MaterialRequest, int64, error) {
	var requests []model.MaterialRequest
	var total int64

	db := GetDB(ctx, r.db).Model(&model.MaterialRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := GetDB(ctx, r.db).Preload("Items")
	if status != "" {
		fetch = fetch.Where("status = ?", status)
	}
	if err := fetch.Order("created_at desc").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.MaterialRequest{}).
		Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
