package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
)

func newAuditFixture() (AuditService, *fakeUserRepo, *fakeRoleRepo, *fakeAuditRepo) {
	userRepo := newFakeUserRepo()
	roleRepo := &fakeRoleRepo{}
	auditRepo := &fakeAuditRepo{}
	roles := NewRoleService(roleRepo, userRepo, auditRepo, &fakeTxManager{})
	svc := NewAuditService(auditRepo, roles)
	return svc, userRepo, roleRepo, auditRepo
}

func TestGetAuditLogsActionFilter(t *testing.T) {
	svc, userRepo, roleRepo, auditRepo := newAuditFixture()
	ctx := context.Background()

	admin := userRepo.addUser("admin")
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: admin, Role: model.RoleAdmin, Active: true})

	_ = auditRepo.Log(ctx, &model.AuditLog{UserID: &admin, Action: model.ActionAddMaterial, EntityName: "Cement"})
	_ = auditRepo.Log(ctx, &model.AuditLog{UserID: &admin, Action: model.ActionUpdateStock, EntityName: "Cement"})
	_ = auditRepo.Log(ctx, &model.AuditLog{UserID: &admin, Action: model.ActionUpdateStock, EntityName: "Rebar"})

	logs, total, err := svc.GetAuditLogs(ctx, admin.String(), "", 1, 20)
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}
	if total != 3 || len(logs) != 3 {
		t.Errorf("expected 3 unfiltered entries, got %d", total)
	}

	logs, total, err = svc.GetAuditLogs(ctx, admin.String(), model.ActionUpdateStock, 1, 20)
	if err != nil {
		t.Fatalf("GetAuditLogs with filter failed: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("expected 2 filtered entries, got %d", total)
	}
	for _, l := range logs {
		if l.Action != model.ActionUpdateStock {
			t.Errorf("filter leaked action %s", l.Action)
		}
	}
}

func TestGetAuditLogsPermission(t *testing.T) {
	svc, userRepo, _, _ := newAuditFixture()
	ctx := context.Background()

	// Roster engineers cannot read the audit trail
	eng := userRepo.addUser("engineer")
	userRepo.roster[eng] = true

	if _, _, err := svc.GetAuditLogs(ctx, eng.String(), "", 1, 20); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for engineer, got %v", err)
	}
	if _, _, err := svc.GetAuditLogs(ctx, "", "", 1, 20); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("expected ErrAuthRequired for anonymous caller, got %v", err)
	}
}
