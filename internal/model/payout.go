package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payout method constants
const (
	PayoutMethodCash     = "CASH"
	PayoutMethodTransfer = "TRANSFER"
	PayoutMethodCheque   = "CHEQUE"
)

// Payout records money paid out against a project (contractors, suppliers, wages)
type Payout struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Project       Project         `gorm:"foreignKey:ProjectID" json:"-"`
	RecipientName string          `gorm:"type:varchar(255);not null" json:"recipient_name"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Method        string          `gorm:"type:varchar(20);not null;default:'TRANSFER'" json:"method"`
	Note          string          `gorm:"type:text" json:"note"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

// ProjectWallet summarizes a project's remaining budget after payouts
type ProjectWallet struct {
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`
	Budget      decimal.Decimal `json:"budget"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Balance     decimal.Decimal `json:"balance"`
	PayoutCount int             `json:"payout_count"`
}

// StockStats aggregates inventory metrics, recomputed on demand
type StockStats struct {
	TotalMaterials      int64           `json:"total_materials"`
	PendingRequests     int64           `json:"pending_requests"`
	ApprovedRequests    int64           `json:"approved_requests"`
	LowStockMaterials   int64           `json:"low_stock_materials"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
}
