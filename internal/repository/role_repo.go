package repository

import (
	"context"
	"errors"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository interface {
	// FindActiveAssignment returns the user's active assignment, or nil when none
	// exists. With multiple active rows (race artifact) the newest wins.
	FindActiveAssignment(ctx context.Context, userID uuid.UUID) (*model.RoleAssignment, error)
	CountAssignments(ctx context.Context) (int64, error)
	DeactivateAssignments(ctx context.Context, userID uuid.UUID) error
	Create(ctx context.Context, assignment *model.RoleAssignment) error
	List(ctx context.Context, page, limit int) ([]model.RoleAssignment, int64, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindActiveAssignment(ctx context.Context, userID uuid.UUID) (*model.RoleAssignment, error) {
	var assignment model.RoleAssignment
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND active = ?", userID, true).
		Order("assigned_at DESC").
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *roleRepository) CountAssignments(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.RoleAssignment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *roleRepository) DeactivateAssignments(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.RoleAssignment{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).Error
}

func (r *roleRepository) Create(ctx context.Context, assignment *model.RoleAssignment) error {
	return GetDB(ctx, r.db).Create(assignment).Error
}

func (r *roleRepository) List(ctx context.Context, page, limit int) ([]model.RoleAssignment, int64, error) {
	var assignments []model.RoleAssignment
	var total int64

	db := GetDB(ctx, r.db).Model(&model.RoleAssignment{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).
		Preload("User").Preload("Assigner").
		Order("assigned_at desc").
		Offset(offset).Limit(limit).
		Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}
