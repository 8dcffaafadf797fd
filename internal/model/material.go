package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementType enum constants
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
)

// MaterialRequest status constants
const (
	RequestPending   = "PENDING"
	RequestApproved  = "APPROVED"
	RequestRejected  = "REJECTED"
	RequestDelivered = "DELIVERED"
)

// MaterialRequest priority constants
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Material represents a tracked construction material. CurrentStock is never
// allowed to go negative; every change to it produces one StockMovement.
type Material struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	NameLocalized string         `gorm:"type:varchar(255)" json:"name_localized"`
	Unit          string         `gorm:"type:varchar(50);not null" json:"unit"` // bag, m3, ton, piece...
	Category      string         `gorm:"type:varchar(100);index" json:"category"`
	CurrentStock  int            `gorm:"type:int;not null;default:0" json:"current_stock"`
	MinStock      int            `gorm:"type:int;not null;default:0" json:"min_stock"`
	UnitPrice     float64        `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	LastUpdated   time.Time      `json:"last_updated"`
	UpdatedBy     *uuid.UUID     `gorm:"type:uuid" json:"updated_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// LowStock reports whether the material sits at or below its minimum threshold
func (m Material) LowStock() bool {
	return m.CurrentStock <= m.MinStock
}

// StockMovement is the append-only audit trail for stock changes. Rows are
// immutable once created; PreviousStock/NewStock bracket the change.
type StockMovement struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MaterialID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"material_id"`
	Material      Material   `gorm:"foreignKey:MaterialID" json:"-"`
	Type          string     `gorm:"type:varchar(15);not null" json:"type"` // IN, OUT, ADJUSTMENT
	Quantity      int        `gorm:"type:int;not null" json:"quantity"`
	PreviousStock int        `gorm:"type:int;not null" json:"previous_stock"`
	NewStock      int        `gorm:"type:int;not null" json:"new_stock"`
	Note          string     `gorm:"type:text" json:"note"`
	RequestID     *uuid.UUID `gorm:"type:uuid;index" json:"request_id"` // set when the movement fulfils a material request
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
}

// MaterialRequest tracks an allocation of materials through the
// PENDING -> APPROVED/REJECTED -> DELIVERED workflow.
// REJECTED and DELIVERED are terminal.
type MaterialRequest struct {
	ID              uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID       uuid.UUID             `gorm:"type:uuid;not null;index" json:"project_id"`
	UnitID          *uuid.UUID            `gorm:"type:uuid;index" json:"unit_id"`
	RequestedBy     *uuid.UUID            `gorm:"type:uuid;index" json:"requested_by"`
	RequesterName   string                `gorm:"type:varchar(255)" json:"requester_name"`
	Status          string                `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Priority        string                `gorm:"type:varchar(10);not null;default:'NORMAL'" json:"priority"`
	Notes           string                `gorm:"type:text" json:"notes"`
	RejectionReason string                `gorm:"type:text" json:"rejection_reason"`
	ApprovedBy      *uuid.UUID            `gorm:"type:uuid" json:"approved_by"` // also the rejecting actor
	ApprovedAt      *time.Time            `json:"approved_at"`
	DeliveredBy     *uuid.UUID            `gorm:"type:uuid" json:"delivered_by"`
	DeliveredAt     *time.Time            `json:"delivered_at"`
	Items           []MaterialRequestItem `gorm:"foreignKey:RequestID" json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// MaterialRequestItem is one requested line. MaterialName and Unit are
// snapshots taken at creation time so later material edits do not rewrite
// historical requests.
type MaterialRequestItem struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID    uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	MaterialID   uuid.UUID `gorm:"type:uuid;not null;index" json:"material_id"`
	MaterialName string    `gorm:"type:varchar(255);not null" json:"material_name"`
	Unit         string    `gorm:"type:varchar(50);not null" json:"unit"`
	Quantity     int       `gorm:"type:int;not null" json:"quantity"`
}
