package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Budget   string `json:"budget"` // decimal string
	Manager  string `json:"manager_id"`
}

type UpdateProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Budget   string `json:"budget"`
	Status   string `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE ON_HOLD COMPLETED"`
}

type CreateUnitRequest struct {
	Label   string  `json:"label" binding:"required"`
	Floor   int     `json:"floor"`
	AreaSqm float64 `json:"area_sqm"`
}

type CreateTaskRequest struct {
	Title      string `json:"title" binding:"required"`
	Details    string `json:"details"`
	UnitID     string `json:"unit_id"`
	AssigneeID string `json:"assignee_id"`
	DueDate    string `json:"due_date"` // RFC3339
}

type UpdateTaskRequest struct {
	Status string `json:"status" binding:"required,oneof=TODO IN_PROGRESS DONE"`
}

type ProjectResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Budget   string `json:"budget"`
	Status   string `json:"status"`
	Manager  string `json:"manager_id,omitempty"`
}

type UnitResponse struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Floor   int     `json:"floor"`
	AreaSqm float64 `json:"area_sqm"`
	Status  string  `json:"status"`
}

type TaskResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Details  string `json:"details"`
	Status   string `json:"status"`
	Assignee string `json:"assignee_id,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}

// --- Interface ---

type ProjectService interface {
	CreateProject(ctx context.Context, userID string, req CreateProjectRequest) (ProjectResponse, error)
	UpdateProject(ctx context.Context, userID string, id string, req UpdateProjectRequest) (ProjectResponse, error)
	GetProjects(ctx context.Context, userID string, page, limit int) ([]ProjectResponse, int64, error)
	CreateUnit(ctx context.Context, userID string, projectID string, req CreateUnitRequest) (UnitResponse, error)
	GetUnits(ctx context.Context, userID string, projectID string) ([]UnitResponse, error)
	CreateTask(ctx context.Context, userID string, projectID string, req CreateTaskRequest) (TaskResponse, error)
	UpdateTaskStatus(ctx context.Context, userID string, taskID string, req UpdateTaskRequest) (TaskResponse, error)
	GetTasks(ctx context.Context, userID string, projectID string, status string) ([]TaskResponse, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	roles       RoleService
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	roles RoleService,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		roles:       roles,
	}
}

// --- Implementation ---

func (s *projectService) CreateProject(ctx context.Context, userID string, req CreateProjectRequest) (ProjectResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermManageProjects); err != nil {
		return ProjectResponse{}, err
	}

	budget := decimal.Zero
	if req.Budget != "" {
		parsed, err := decimal.NewFromString(req.Budget)
		if err != nil {
			return ProjectResponse{}, fmt.Errorf("invalid budget: %w", err)
		}
		budget = parsed
	}

	var managerID *uuid.UUID
	if req.Manager != "" {
		parsed, err := uuid.Parse(req.Manager)
		if err != nil {
			return ProjectResponse{}, fmt.Errorf("invalid manager id: %w", err)
		}
		managerID = &parsed
	}

	project := model.Project{
		Name:      req.Name,
		Location:  req.Location,
		Budget:    budget,
		Status:    model.ProjectPlanning,
		ManagerID: managerID,
	}

	actor := parseActor(userID)
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.projectRepo.Create(txCtx, &project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionCreateProject,
			EntityID:   project.ID.String(),
			EntityName: project.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})

	if err != nil {
		return ProjectResponse{}, err
	}

	return toProjectResponse(project), nil
}

func (s *projectService) UpdateProject(ctx context.Context, userID string, id string, req UpdateProjectRequest) (ProjectResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermManageProjects); err != nil {
		return ProjectResponse{}, err
	}

	projectID, err := uuid.Parse(id)
	if err != nil {
		return ProjectResponse{}, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return ProjectResponse{}, fmt.Errorf("project not found: %s", id)
	}

	project.Name = req.Name
	project.Location = req.Location
	if req.Budget != "" {
		budget, parseErr := decimal.NewFromString(req.Budget)
		if parseErr != nil {
			return ProjectResponse{}, fmt.Errorf("invalid budget: %w", parseErr)
		}
		project.Budget = budget
	}
	if req.Status != "" {
		project.Status = req.Status
	}

	actor := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.projectRepo.Update(txCtx, project); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionUpdateProject,
			EntityID:   project.ID.String(),
			EntityName: project.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})

	if err != nil {
		return ProjectResponse{}, err
	}

	return toProjectResponse(*project), nil
}

func (s *projectService) GetProjects(ctx context.Context, userID string, page, limit int) ([]ProjectResponse, int64, error) {
	if userID == "" {
		return []ProjectResponse{}, 0, nil
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	projects, total, err := s.projectRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch projects: %w", err)
	}

	res := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		res = append(res, toProjectResponse(p))
	}
	return res, total, nil
}

func (s *projectService) CreateUnit(ctx context.Context, userID string, projectID string, req CreateUnitRequest) (UnitResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermManageUnits); err != nil {
		return UnitResponse{}, err
	}

	pid, err := uuid.Parse(projectID)
	if err != nil {
		return UnitResponse{}, fmt.Errorf("invalid project id: %w", err)
	}
	if _, err := s.projectRepo.FindByID(ctx, pid); err != nil {
		return UnitResponse{}, fmt.Errorf("project not found: %s", projectID)
	}

	unit := model.Unit{
		ProjectID: pid,
		Label:     req.Label,
		Floor:     req.Floor,
		AreaSqm:   req.AreaSqm,
	}

	actor := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.projectRepo.CreateUnit(txCtx, &unit); err != nil {
			return fmt.Errorf("failed to create unit: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionCreateUnit,
			EntityID:   unit.ID.String(),
			EntityName: unit.Label,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})

	if err != nil {
		return UnitResponse{}, err
	}

	return toUnitResponse(unit), nil
}

func (s *projectService) GetUnits(ctx context.Context, userID string, projectID string) ([]UnitResponse, error) {
	if userID == "" {
		return []UnitResponse{}, nil
	}

	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	units, err := s.projectRepo.ListUnits(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}

	res := make([]UnitResponse, 0, len(units))
	for _, u := range units {
		res = append(res, toUnitResponse(u))
	}
	return res, nil
}

func (s *projectService) CreateTask(ctx context.Context, userID string, projectID string, req CreateTaskRequest) (TaskResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermManageTasks); err != nil {
		return TaskResponse{}, err
	}

	pid, err := uuid.Parse(projectID)
	if err != nil {
		return TaskResponse{}, fmt.Errorf("invalid project id: %w", err)
	}
	if _, err := s.projectRepo.FindByID(ctx, pid); err != nil {
		return TaskResponse{}, fmt.Errorf("project not found: %s", projectID)
	}

	task := model.Task{
		ProjectID: pid,
		Title:     req.Title,
		Details:   req.Details,
		Status:    model.TaskTodo,
	}

	if req.UnitID != "" {
		parsed, parseErr := uuid.Parse(req.UnitID)
		if parseErr != nil {
			return TaskResponse{}, fmt.Errorf("invalid unit id: %w", parseErr)
		}
		task.UnitID = &parsed
	}
	if req.AssigneeID != "" {
		parsed, parseErr := uuid.Parse(req.AssigneeID)
		if parseErr != nil {
			return TaskResponse{}, fmt.Errorf("invalid assignee id: %w", parseErr)
		}
		task.AssigneeID = &parsed
	}
	if req.DueDate != "" {
		due, parseErr := time.Parse(time.RFC3339, req.DueDate)
		if parseErr != nil {
			return TaskResponse{}, fmt.Errorf("invalid due date: %w", parseErr)
		}
		task.DueDate = &due
	}

	actor := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.projectRepo.CreateTask(txCtx, &task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionCreateTask,
			EntityID:   task.ID.String(),
			EntityName: task.Title,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})

	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(task), nil
}

func (s *projectService) UpdateTaskStatus(ctx context.Context, userID string, taskID string, req UpdateTaskRequest) (TaskResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermManageTasks); err != nil {
		return TaskResponse{}, err
	}

	id, err := uuid.Parse(taskID)
	if err != nil {
		return TaskResponse{}, fmt.Errorf("invalid task id: %w", err)
	}

	task, err := s.projectRepo.FindTaskByID(ctx, id)
	if err != nil {
		return TaskResponse{}, fmt.Errorf("task not found: %s", taskID)
	}

	task.Status = req.Status

	actor := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.projectRepo.SaveTask(txCtx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionUpdateTask,
			EntityID:   task.ID.String(),
			EntityName: task.Title,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})

	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(*task), nil
}

func (s *projectService) GetTasks(ctx context.Context, userID string, projectID string, status string) ([]TaskResponse, error) {
	if userID == "" {
		return []TaskResponse{}, nil
	}

	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	tasks, err := s.projectRepo.ListTasks(ctx, pid, status)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	res := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, toTaskResponse(t))
	}
	return res, nil
}

// --- Helpers ---

func toProjectResponse(p model.Project) ProjectResponse {
	manager := ""
	if p.ManagerID != nil {
		manager = p.ManagerID.String()
	}
	return ProjectResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Location: p.Location,
		Budget:   p.Budget.StringFixed(2),
		Status:   p.Status,
		Manager:  manager,
	}
}

func toUnitResponse(u model.Unit) UnitResponse {
	return UnitResponse{
		ID:      u.ID.String(),
		Label:   u.Label,
		Floor:   u.Floor,
		AreaSqm: u.AreaSqm,
		Status:  u.Status,
	}
}

func toTaskResponse(t model.Task) TaskResponse {
	assignee := ""
	if t.AssigneeID != nil {
		assignee = t.AssigneeID.String()
	}
	dueDate := ""
	if t.DueDate != nil {
		dueDate = t.DueDate.Format(time.RFC3339)
	}
	return TaskResponse{
		ID:       t.ID.String(),
		Title:    t.Title,
		Details:  t.Details,
		Status:   t.Status,
		Assignee: assignee,
		DueDate:  dueDate,
	}
}
