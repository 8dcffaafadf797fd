package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Project status constants
const (
	ProjectPlanning  = "PLANNING"
	ProjectActive    = "ACTIVE"
	ProjectOnHold    = "ON_HOLD"
	ProjectCompleted = "COMPLETED"
)

// Task status constants
const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
)

// Project represents a construction project
type Project struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Location  string          `gorm:"type:varchar(255)" json:"location"`
	Budget    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"budget"`
	Status    string          `gorm:"type:varchar(20);not null;default:'PLANNING';index" json:"status"`
	ManagerID *uuid.UUID      `gorm:"type:uuid" json:"manager_id"`
	Manager   *User           `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Unit is a sellable/buildable unit within a project (apartment, villa, shop...)
type Unit struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   Project   `gorm:"foreignKey:ProjectID" json:"-"`
	Label     string    `gorm:"type:varchar(100);not null" json:"label"` // e.g. "A-301"
	Floor     int       `gorm:"type:int" json:"floor"`
	AreaSqm   float64   `gorm:"type:decimal(10,2)" json:"area_sqm"`
	Status    string    `gorm:"type:varchar(30);default:'AVAILABLE'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is a unit of site work assigned to an engineer
type Task struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	UnitID     *uuid.UUID `gorm:"type:uuid;index" json:"unit_id"`
	Title      string     `gorm:"type:varchar(255);not null" json:"title"`
	Details    string     `gorm:"type:text" json:"details"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id"`
	Assignee   *User      `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Status     string     `gorm:"type:varchar(20);not null;default:'TODO';index" json:"status"`
	DueDate    *time.Time `json:"due_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
