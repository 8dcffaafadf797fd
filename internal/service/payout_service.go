package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreatePayoutRequest struct {
	ProjectID     string `json:"project_id" binding:"required"`
	RecipientName string `json:"recipient_name" binding:"required"`
	Amount        string `json:"amount" binding:"required"` // decimal string, must be positive
	Method        string `json:"method" binding:"omitempty,oneof=CASH TRANSFER CHEQUE"`
	Note          string `json:"note"`
}

type PayoutResponse struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	RecipientName string `json:"recipient_name"`
	Amount        string `json:"amount"`
	Method        string `json:"method"`
	Note          string `json:"note"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

type PayoutSummary struct {
	TotalPaid string `json:"total_paid"`
}

// PayoutService records money going out against projects and folds wallet
// balances (budget minus payouts) on demand.
type PayoutService interface {
	CreatePayout(ctx context.Context, userID string, req CreatePayoutRequest) (PayoutResponse, error)
	GetPayouts(ctx context.Context, userID string, projectID string, page, limit int) ([]PayoutResponse, int64, error)
	GetProjectWallet(ctx context.Context, userID string, projectID string) (model.ProjectWallet, error)
	GetPayoutSummary(ctx context.Context, userID string) (PayoutSummary, error)
}

type payoutService struct {
	payoutRepo  repository.PayoutRepository
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	roles       RoleService
}

func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	roles RoleService,
) PayoutService {
	return &payoutService{
		payoutRepo:  payoutRepo,
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		roles:       roles,
	}
}

// --- Implementation ---

func (s *payoutService) CreatePayout(ctx context.Context, userID string, req CreatePayoutRequest) (PayoutResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermManagePayouts); err != nil {
		return PayoutResponse{}, err
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return PayoutResponse{}, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return PayoutResponse{}, fmt.Errorf("project not found: %s", req.ProjectID)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return PayoutResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return PayoutResponse{}, fmt.Errorf("amount must be positive")
	}

	method := req.Method
	if method == "" {
		method = model.PayoutMethodTransfer
	}

	actor := parseActor(userID)
	payout := model.Payout{
		ProjectID:     projectID,
		RecipientName: req.RecipientName,
		Amount:        amount,
		Method:        method,
		Note:          req.Note,
		CreatedBy:     actor,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payoutRepo.Create(txCtx, &payout); err != nil {
			return fmt.Errorf("failed to create payout: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionCreatePayout,
			EntityID:   payout.ID.String(),
			EntityName: project.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})

	if err != nil {
		return PayoutResponse{}, err
	}

	return toPayoutResponse(payout), nil
}

func (s *payoutService) GetPayouts(ctx context.Context, userID string, projectID string, page, limit int) ([]PayoutResponse, int64, error) {
	if userID == "" {
		return []PayoutResponse{}, 0, nil
	}

	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid project id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	payouts, total, err := s.payoutRepo.ListByProject(ctx, pid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payouts: %w", err)
	}

	res := make([]PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		res = append(res, toPayoutResponse(p))
	}
	return res, total, nil
}

func (s *payoutService) GetProjectWallet(ctx context.Context, userID string, projectID string) (model.ProjectWallet, error) {
	if userID == "" {
		return model.ProjectWallet{}, nil
	}

	pid, err := uuid.Parse(projectID)
	if err != nil {
		return model.ProjectWallet{}, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, pid)
	if err != nil {
		return model.ProjectWallet{}, fmt.Errorf("project not found: %s", projectID)
	}

	totalPaid, count, err := s.payoutRepo.SumByProject(ctx, pid)
	if err != nil {
		return model.ProjectWallet{}, fmt.Errorf("failed to sum payouts: %w", err)
	}

	return model.ProjectWallet{
		ProjectID:   project.ID.String(),
		ProjectName: project.Name,
		Budget:      project.Budget,
		TotalPaid:   totalPaid,
		Balance:     project.Budget.Sub(totalPaid),
		PayoutCount: count,
	}, nil
}

func (s *payoutService) GetPayoutSummary(ctx context.Context, userID string) (PayoutSummary, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermViewFinances); err != nil {
		return PayoutSummary{}, err
	}

	total, err := s.payoutRepo.SumAll(ctx)
	if err != nil {
		return PayoutSummary{}, fmt.Errorf("failed to sum payouts: %w", err)
	}

	return PayoutSummary{TotalPaid: total.StringFixed(2)}, nil
}

func toPayoutResponse(p model.Payout) PayoutResponse {
	return PayoutResponse{
		ID:            p.ID.String(),
		ProjectID:     p.ProjectID.String(),
		RecipientName: p.RecipientName,
		Amount:        p.Amount.StringFixed(2),
		Method:        p.Method,
		Note:          p.Note,
		CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
