package repository

import (
	"context"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, page, limit int) ([]model.Project, int64, error)

	CreateUnit(ctx context.Context, unit *model.Unit) error
	FindUnitByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	ListUnits(ctx context.Context, projectID uuid.UUID) ([]model.Unit, error)

	CreateTask(ctx context.Context, task *model.Task) error
	FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	SaveTask(ctx context.Context, task *model.Task) error
	ListTasks(ctx context.Context, projectID uuid.UUID, status string) ([]model.Task, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Save(project).Error
}

func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := GetDB(ctx, r.db).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, page, limit int) ([]model.Project, int64, error) {
	var projects []model.Project
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Project{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Manager").Order("created_at desc").Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) CreateUnit(ctx context.Context, unit *model.Unit) error {
	return GetDB(ctx, r.db).Create(unit).Error
}

func (r *projectRepository) FindUnitByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var unit model.Unit
	if err := GetDB(ctx, r.db).First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *projectRepository) ListUnits(ctx context.Context, projectID uuid.UUID) ([]model.Unit, error) {
	var units []model.Unit
	if err := GetDB(ctx, r.db).Where("project_id = ?", projectID).Order("label asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *projectRepository) CreateTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Create(task).Error
}

func (r *projectRepository) FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := GetDB(ctx, r.db).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *projectRepository) SaveTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Save(task).Error
}

func (r *projectRepository) ListTasks(ctx context.Context, projectID uuid.UUID, status string) ([]model.Task, error) {
	db := GetDB(ctx, r.db).Where("project_id = ?", projectID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var tasks []model.Task
	if err := db.Preload("Assignee").Order("created_at desc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
