package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"github.com/shopspring/decimal"
)

func newPayoutFixture() (PayoutService, *fakeProjectRepo, *fakeUserRepo, *fakeRoleRepo) {
	userRepo := newFakeUserRepo()
	roleRepo := &fakeRoleRepo{}
	projectRepo := newFakeProjectRepo()
	payoutRepo := &fakePayoutRepo{}
	auditRepo := &fakeAuditRepo{}
	tx := &fakeTxManager{}

	roles := NewRoleService(roleRepo, userRepo, auditRepo, tx)
	svc := NewPayoutService(payoutRepo, projectRepo, auditRepo, tx, roles)
	return svc, projectRepo, userRepo, roleRepo
}

func TestCreatePayoutAndWalletFold(t *testing.T) {
	svc, projectRepo, userRepo, roleRepo := newPayoutFixture()
	ctx := context.Background()

	finance := userRepo.addUser("finance")
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: finance, Role: model.RoleFinanceManager, Active: true})

	projectID := projectRepo.addProject("Tower A", decimal.RequireFromString("1000000.00"))

	p1, err := svc.CreatePayout(ctx, finance.String(), CreatePayoutRequest{
		ProjectID:     projectID.String(),
		RecipientName: "Steel Supplier Co",
		Amount:        "250000.50",
	})
	if err != nil {
		t.Fatalf("CreatePayout failed: %v", err)
	}
	if p1.Method != model.PayoutMethodTransfer {
		t.Errorf("method should default to TRANSFER, got %s", p1.Method)
	}

	if _, err := svc.CreatePayout(ctx, finance.String(), CreatePayoutRequest{
		ProjectID:     projectID.String(),
		RecipientName: "Concrete Crew",
		Amount:        "100000.25",
		Method:        model.PayoutMethodCash,
	}); err != nil {
		t.Fatalf("CreatePayout failed: %v", err)
	}

	wallet, err := svc.GetProjectWallet(ctx, finance.String(), projectID.String())
	if err != nil {
		t.Fatalf("GetProjectWallet failed: %v", err)
	}
	if wallet.PayoutCount != 2 {
		t.Errorf("expected 2 payouts, got %d", wallet.PayoutCount)
	}
	if !wallet.TotalPaid.Equal(decimal.RequireFromString("350000.75")) {
		t.Errorf("expected total paid 350000.75, got %s", wallet.TotalPaid)
	}
	if !wallet.Balance.Equal(decimal.RequireFromString("649999.25")) {
		t.Errorf("expected balance 649999.25, got %s", wallet.Balance)
	}

	summary, err := svc.GetPayoutSummary(ctx, finance.String())
	if err != nil {
		t.Fatalf("GetPayoutSummary failed: %v", err)
	}
	if summary.TotalPaid != "350000.75" {
		t.Errorf("expected summary 350000.75, got %s", summary.TotalPaid)
	}
}

func TestCreatePayoutValidation(t *testing.T) {
	svc, projectRepo, userRepo, roleRepo := newPayoutFixture()
	ctx := context.Background()

	finance := userRepo.addUser("finance")
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: finance, Role: model.RoleFinanceManager, Active: true})
	projectID := projectRepo.addProject("Tower B", decimal.NewFromInt(1000))

	// Zero and negative amounts are refused
	for _, amount := range []string{"0", "-5", "abc"} {
		if _, err := svc.CreatePayout(ctx, finance.String(), CreatePayoutRequest{
			ProjectID:     projectID.String(),
			RecipientName: "X",
			Amount:        amount,
		}); err == nil {
			t.Errorf("expected amount %q to be rejected", amount)
		}
	}

	// Stock managers cannot pay
	stock := userRepo.addUser("stock")
	_ = roleRepo.Create(ctx, &model.RoleAssignment{UserID: stock, Role: model.RoleStockManager, Active: true})
	_, err := svc.CreatePayout(ctx, stock.String(), CreatePayoutRequest{
		ProjectID:     projectID.String(),
		RecipientName: "X",
		Amount:        "10",
	})
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for stock_manager, got %v", err)
	}
}
