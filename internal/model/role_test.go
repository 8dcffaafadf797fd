package model

import "testing"

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name                string
		assignedRole        string
		inRoster            bool
		anyAssignmentExists bool
		want                string
	}{
		{"explicit assignment wins", RoleStockManager, true, true, RoleStockManager},
		{"assignment beats roster", RoleFinanceManager, true, true, RoleFinanceManager},
		{"roster member defaults to engineer", "", true, true, RoleEngineer},
		{"bootstrap admin when no assignments exist", "", false, false, RoleAdmin},
		{"roster beats bootstrap", "", true, false, RoleEngineer},
		{"generic default after bootstrap", "", false, true, RoleEngineeringLead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRole(tt.assignedRole, tt.inRoster, tt.anyAssignmentExists)
			if got != tt.want {
				t.Errorf("ResolveRole(%q, %v, %v) = %q, want %q",
					tt.assignedRole, tt.inRoster, tt.anyAssignmentExists, got, tt.want)
			}
		})
	}
}

func TestHasRolePermissionWildcard(t *testing.T) {
	// Admin carries only manage_all yet must pass every check
	perms := []string{
		PermManageRoles, PermManageProjects, PermManageStock,
		PermApproveRequests, PermDeliverMaterials, PermManagePayouts,
		PermViewAuditLog, "some_future_permission",
	}
	for _, p := range perms {
		if !HasRolePermission(RoleAdmin, p) {
			t.Errorf("admin should pass %q via manage_all", p)
		}
	}
}

func TestHasRolePermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleStockManager, PermManageStock, true},
		{RoleStockManager, PermDeliverMaterials, true},
		{RoleStockManager, PermManagePayouts, false},
		{RoleEngineeringLead, PermRequestMaterials, true},
		{RoleEngineeringLead, PermApproveRequests, false},
		{RoleFinanceManager, PermManagePayouts, true},
		{RoleFinanceManager, PermManageStock, false},
		{RoleEngineer, PermViewStock, true},
		{RoleEngineer, PermManageTasks, false},
		{"unknown_role", PermViewStock, false},
		{"", PermViewStock, false},
	}

	for _, tt := range tests {
		if got := HasRolePermission(tt.role, tt.permission); got != tt.want {
			t.Errorf("HasRolePermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for role := range RolePermissions {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	if ValidRole("superuser") {
		t.Error("ValidRole(\"superuser\") = true, want false")
	}
	if ValidRole("") {
		t.Error("ValidRole(\"\") = true, want false")
	}
}

func TestRoleWeightsOrdering(t *testing.T) {
	order := []string{
		RoleAdmin, RoleActingManager, RoleEngineeringLead,
		RoleFinanceManager, RoleStockManager, RoleEngineer,
	}
	for i := 1; i < len(order); i++ {
		if RoleWeights[order[i-1]] <= RoleWeights[order[i]] {
			t.Errorf("expected weight of %s (%d) > %s (%d)",
				order[i-1], RoleWeights[order[i-1]], order[i], RoleWeights[order[i]])
		}
	}
}

func TestEveryRoleHasWeightAndPermissions(t *testing.T) {
	for role := range RolePermissions {
		if _, ok := RoleWeights[role]; !ok {
			t.Errorf("role %s has permissions but no weight", role)
		}
		if len(RolePermissions[role]) == 0 {
			t.Errorf("role %s has an empty permission list", role)
		}
	}
}
