package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
)

func newProjectFixture() (ProjectService, *fakeUserRepo, *fakeRoleRepo, *fakeAuditRepo) {
	userRepo := newFakeUserRepo()
	roleRepo := &fakeRoleRepo{}
	projectRepo := newFakeProjectRepo()
	auditRepo := &fakeAuditRepo{}
	tx := &fakeTxManager{}

	roles := NewRoleService(roleRepo, userRepo, auditRepo, tx)
	svc := NewProjectService(projectRepo, auditRepo, tx, roles)
	return svc, userRepo, roleRepo, auditRepo
}

func TestProjectLifecycle(t *testing.T) {
	svc, userRepo, roleRepo, auditRepo := newProjectFixture()
	ctx := context.Background()

	manager := userRepo.addUser("manager")
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: manager, Role: model.RoleActingManager, Active: true})

	project, err := svc.CreateProject(ctx, manager.String(), CreateProjectRequest{
		Name:     "Al Noor Residence",
		Location: "Riyadh",
		Budget:   "2500000.00",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.Status != model.ProjectPlanning {
		t.Errorf("new project should be PLANNING, got %s", project.Status)
	}
	if project.Budget != "2500000.00" {
		t.Errorf("unexpected budget: %s", project.Budget)
	}

	unit, err := svc.CreateUnit(ctx, manager.String(), project.ID, CreateUnitRequest{
		Label:   "A-301",
		Floor:   3,
		AreaSqm: 120.5,
	})
	if err != nil {
		t.Fatalf("CreateUnit failed: %v", err)
	}

	task, err := svc.CreateTask(ctx, manager.String(), project.ID, CreateTaskRequest{
		Title:  "Pour foundation",
		UnitID: unit.ID,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.Status != model.TaskTodo {
		t.Errorf("new task should be TODO, got %s", task.Status)
	}

	updated, err := svc.UpdateTaskStatus(ctx, manager.String(), task.ID, UpdateTaskRequest{Status: model.TaskDone})
	if err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	if updated.Status != model.TaskDone {
		t.Errorf("expected DONE, got %s", updated.Status)
	}

	tasks, err := svc.GetTasks(ctx, manager.String(), project.ID, model.TaskDone)
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected 1 DONE task, got %d", len(tasks))
	}

	// Every mutation left an audit entry
	wantActions := map[string]bool{
		model.ActionCreateProject: false,
		model.ActionCreateUnit:    false,
		model.ActionCreateTask:    false,
		model.ActionUpdateTask:    false,
	}
	for _, action := range auditRepo.actions() {
		if _, ok := wantActions[action]; ok {
			wantActions[action] = true
		}
	}
	for action, seen := range wantActions {
		if !seen {
			t.Errorf("missing audit entry for %s", action)
		}
	}
}

func TestProjectPermissions(t *testing.T) {
	svc, userRepo, roleRepo, _ := newProjectFixture()
	ctx := context.Background()

	// Engineers cannot create projects
	eng := userRepo.addUser("engineer")
	userRepo.roster[eng] = true
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: userRepo.addUser("someone"), Role: model.RoleEngineer, Active: true})

	_, err := svc.CreateProject(ctx, eng.String(), CreateProjectRequest{Name: "X"})
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for engineer, got %v", err)
	}

	// Anonymous reads degrade to empty
	projects, total, err := svc.GetProjects(ctx, "", 1, 20)
	if err != nil {
		t.Fatalf("anonymous GetProjects should not error: %v", err)
	}
	if total != 0 || len(projects) != 0 {
		t.Errorf("anonymous read should be empty")
	}
}
