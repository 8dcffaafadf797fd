package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
)

func newRoleServiceForTest() (RoleService, *fakeUserRepo, *fakeRoleRepo, *fakeAuditRepo) {
	userRepo := newFakeUserRepo()
	roleRepo := &fakeRoleRepo{}
	auditRepo := &fakeAuditRepo{}
	svc := NewRoleService(roleRepo, userRepo, auditRepo, &fakeTxManager{})
	return svc, userRepo, roleRepo, auditRepo
}

func TestGetMyRoleBootstrapAdmin(t *testing.T) {
	svc, userRepo, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	// No assignments exist anywhere: the first caller acts as admin
	uid := userRepo.addUser("founder")
	role, err := svc.GetMyRole(ctx, uid.String())
	if err != nil {
		t.Fatalf("GetMyRole failed: %v", err)
	}
	if role != model.RoleAdmin {
		t.Errorf("expected bootstrap admin, got %q", role)
	}
}

func TestGetMyRoleDefaultsAfterBootstrap(t *testing.T) {
	svc, userRepo, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	admin := userRepo.addUser("admin")
	other := userRepo.addUser("other")

	if _, err := svc.AssignRole(ctx, admin.String(), AssignRoleRequest{
		UserID: admin.String(),
		Role:   model.RoleAdmin,
	}); err != nil {
		t.Fatalf("bootstrap AssignRole failed: %v", err)
	}

	// Once any assignment exists, unassigned users get the generic default
	role, err := svc.GetMyRole(ctx, other.String())
	if err != nil {
		t.Fatalf("GetMyRole failed: %v", err)
	}
	if role != model.RoleEngineeringLead {
		t.Errorf("expected engineering_lead default, got %q", role)
	}
}

func TestGetMyRoleRosterMember(t *testing.T) {
	svc, userRepo, roleRepo, _ := newRoleServiceForTest()
	ctx := context.Background()

	// Seed an unrelated assignment so bootstrap does not kick in
	admin := userRepo.addUser("admin")
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: admin, Role: model.RoleAdmin, Active: true})

	eng := userRepo.addUser("site-eng")
	userRepo.roster[eng] = true

	role, err := svc.GetMyRole(ctx, eng.String())
	if err != nil {
		t.Fatalf("GetMyRole failed: %v", err)
	}
	if role != model.RoleEngineer {
		t.Errorf("expected roster member to resolve to engineer, got %q", role)
	}
}

func TestGetMyRoleAssignmentBeatsRoster(t *testing.T) {
	svc, userRepo, roleRepo, _ := newRoleServiceForTest()
	ctx := context.Background()

	uid := userRepo.addUser("lead")
	userRepo.roster[uid] = true
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: uid, Role: model.RoleStockManager, Active: true})

	role, err := svc.GetMyRole(ctx, uid.String())
	if err != nil {
		t.Fatalf("GetMyRole failed: %v", err)
	}
	if role != model.RoleStockManager {
		t.Errorf("expected assignment to win over roster, got %q", role)
	}
}

func TestGetMyRoleMissingIdentity(t *testing.T) {
	svc, _, _, _ := newRoleServiceForTest()

	role, err := svc.GetMyRole(context.Background(), "")
	if err != nil {
		t.Fatalf("expected empty read, got error: %v", err)
	}
	if role != "" {
		t.Errorf("expected empty role for missing identity, got %q", role)
	}

	info, err := svc.GetMyRoleWithPermissions(context.Background(), "not-a-uuid")
	if err != nil {
		t.Fatalf("expected empty read, got error: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil role info for bogus identity, got %+v", info)
	}
}

func TestRequirePermission(t *testing.T) {
	svc, userRepo, roleRepo, _ := newRoleServiceForTest()
	ctx := context.Background()

	uid := userRepo.addUser("stock-guy")
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: uid, Role: model.RoleStockManager, Active: true})

	if err := svc.RequirePermission(ctx, uid.String(), model.PermManageStock); err != nil {
		t.Errorf("stock_manager should hold manage_stock: %v", err)
	}

	err := svc.RequirePermission(ctx, uid.String(), model.PermManagePayouts)
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for manage_payouts, got %v", err)
	}

	if err := svc.RequirePermission(ctx, "", model.PermViewStock); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("expected ErrAuthRequired for empty identity, got %v", err)
	}
}

func TestAssignRoleGating(t *testing.T) {
	svc, userRepo, roleRepo, _ := newRoleServiceForTest()
	ctx := context.Background()

	admin := userRepo.addUser("admin")
	engineer := userRepo.addUser("engineer")
	target := userRepo.addUser("target")

	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: admin, Role: model.RoleAdmin, Active: true})
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: engineer, Role: model.RoleEngineer, Active: true})

	// An engineer must not assign roles
	_, err := svc.AssignRole(ctx, engineer.String(), AssignRoleRequest{
		UserID: target.String(),
		Role:   model.RoleFinanceManager,
	})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for engineer caller, got %v", err)
	}

	// Unknown roles are rejected before any write
	_, err = svc.AssignRole(ctx, admin.String(), AssignRoleRequest{
		UserID: target.String(),
		Role:   "warlord",
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}

	res, err := svc.AssignRole(ctx, admin.String(), AssignRoleRequest{
		UserID: target.String(),
		Role:   model.RoleFinanceManager,
	})
	if err != nil {
		t.Fatalf("AssignRole failed: %v", err)
	}
	if res.Role != model.RoleFinanceManager {
		t.Errorf("expected finance_manager, got %q", res.Role)
	}

	role, _ := svc.GetMyRole(ctx, target.String())
	if role != model.RoleFinanceManager {
		t.Errorf("target should resolve to finance_manager, got %q", role)
	}
}

func TestAssignRoleKeepsSingleActiveAssignment(t *testing.T) {
	svc, userRepo, roleRepo, auditRepo := newRoleServiceForTest()
	ctx := context.Background()

	admin := userRepo.addUser("admin")
	target := userRepo.addUser("target")
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: admin, Role: model.RoleAdmin, Active: true})

	for _, role := range []string{model.RoleEngineer, model.RoleStockManager, model.RoleActingManager} {
		if _, err := svc.AssignRole(ctx, admin.String(), AssignRoleRequest{
			UserID: target.String(),
			Role:   role,
		}); err != nil {
			t.Fatalf("AssignRole(%s) failed: %v", role, err)
		}
	}

	active := 0
	for _, a := range roleRepo.assignments {
		if a.UserID == target && a.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one active assignment, got %d", active)
	}

	role, _ := svc.GetMyRole(ctx, target.String())
	if role != model.RoleActingManager {
		t.Errorf("expected latest assignment to win, got %q", role)
	}

	// Each assignment is audited
	count := 0
	for _, action := range auditRepo.actions() {
		if action == model.ActionAssignRole {
			count++
		}
	}
	if count != 3 {
		t.Errorf("expected 3 audit entries, got %d", count)
	}
}
