package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionAssignRole     = "ASSIGN_ROLE"
	ActionAddMaterial    = "ADD_MATERIAL"
	ActionUpdateMaterial = "UPDATE_MATERIAL"
	ActionUpdateStock    = "UPDATE_STOCK"
	ActionCreateRequest  = "CREATE_MATERIAL_REQUEST"
	ActionApproveRequest = "APPROVE_MATERIAL_REQUEST"
	ActionRejectRequest  = "REJECT_MATERIAL_REQUEST"
	ActionDeliverRequest = "DELIVER_MATERIAL_REQUEST"
	ActionCreateProject  = "CREATE_PROJECT"
	ActionUpdateProject  = "UPDATE_PROJECT"
	ActionCreateUnit     = "CREATE_UNIT"
	ActionCreateTask     = "CREATE_TASK"
	ActionUpdateTask     = "UPDATE_TASK"
	ActionCreatePayout   = "CREATE_PAYOUT"
	ActionEnrollEngineer = "ENROLL_ENGINEER"
)

// AuditLog tracks who changed what and when for critical system mutations
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nullable for system actions
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
