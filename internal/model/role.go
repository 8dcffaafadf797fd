package model

import (
	"time"

	"github.com/google/uuid"
)

// Role name constants, ordered by hierarchy weight (descending)
const (
	RoleAdmin           = "admin"
	RoleActingManager   = "acting_manager"
	RoleEngineeringLead = "engineering_lead"
	RoleFinanceManager  = "finance_manager"
	RoleStockManager    = "stock_manager"
	RoleEngineer        = "engineer"
)

// Permission tokens checked against the static role table
const (
	PermManageAll        = "manage_all" // wildcard, admin only
	PermManageRoles      = "manage_roles"
	PermManageProjects   = "manage_projects"
	PermViewProjects     = "view_projects"
	PermManageUnits      = "manage_units"
	PermManageTasks      = "manage_tasks"
	PermViewTasks        = "view_tasks"
	PermManageStock      = "manage_stock"
	PermViewStock        = "view_stock"
	PermRequestMaterials = "request_materials"
	PermApproveRequests  = "approve_material_requests"
	PermDeliverMaterials = "deliver_materials"
	PermManagePayouts    = "manage_payouts"
	PermViewFinances     = "view_finances"
	PermViewAuditLog     = "view_audit_log"
)

// RoleWeights ranks roles for hierarchy comparisons
var RoleWeights = map[string]int{
	RoleAdmin:           100,
	RoleActingManager:   90,
	RoleEngineeringLead: 70,
	RoleFinanceManager:  60,
	RoleStockManager:    50,
	RoleEngineer:        30,
}

// RolePermissions is the static, versioned permission table. It is compiled into
// the binary rather than stored per-user; changing a role's grants is a code change.
var RolePermissions = map[string][]string{
	RoleAdmin: {PermManageAll},
	RoleActingManager: {
		PermManageRoles, PermManageProjects, PermViewProjects,
		PermManageUnits, PermManageTasks, PermViewTasks,
		PermViewStock, PermRequestMaterials, PermApproveRequests,
		PermManagePayouts, PermViewFinances, PermViewAuditLog,
	},
	RoleEngineeringLead: {
		PermViewProjects, PermManageTasks, PermViewTasks,
		PermViewStock, PermRequestMaterials,
	},
	RoleFinanceManager: {
		PermViewProjects, PermViewStock,
		PermManagePayouts, PermViewFinances, PermViewAuditLog,
	},
	RoleStockManager: {
		PermViewProjects, PermManageStock, PermViewStock,
		PermApproveRequests, PermDeliverMaterials,
	},
	RoleEngineer: {
		PermViewProjects, PermViewTasks,
		PermViewStock, PermRequestMaterials,
	},
}

// ValidRole reports whether name is a known role
func ValidRole(name string) bool {
	_, ok := RolePermissions[name]
	return ok
}

// HasRolePermission checks a permission token against the static table.
// The manage_all wildcard grants everything.
func HasRolePermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == PermManageAll || p == permission {
			return true
		}
	}
	return false
}

// ResolveRole computes the effective role for a user from explicit inputs,
// first match wins:
//  1. an active role assignment
//  2. membership in the engineer roster
//  3. bootstrap: no assignment exists anywhere yet, the caller acts as admin
//  4. the generic default
func ResolveRole(assignedRole string, inRoster bool, anyAssignmentExists bool) string {
	if assignedRole != "" {
		return assignedRole
	}
	if inRoster {
		return RoleEngineer
	}
	if !anyAssignmentExists {
		return RoleAdmin
	}
	return RoleEngineeringLead
}

// RoleAssignment records a role granted to a user. Historical rows are kept;
// the assignment mutation guarantees at most one active row per user.
type RoleAssignment struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role       string     `gorm:"type:varchar(50);not null" json:"role"`
	AssignedBy *uuid.UUID `gorm:"type:uuid" json:"assigned_by"`
	Assigner   *User      `gorm:"foreignKey:AssignedBy" json:"assigner,omitempty"`
	Active     bool       `gorm:"not null;default:true;index" json:"active"`
	AssignedAt time.Time  `gorm:"autoCreateTime;index" json:"assigned_at"`
}
