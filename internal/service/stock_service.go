package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/repository"
	ws "github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type AddMaterialRequest struct {
	Name          string  `json:"name" binding:"required"`
	NameLocalized string  `json:"name_localized"`
	Unit          string  `json:"unit" binding:"required"`
	Category      string  `json:"category"`
	CurrentStock  int     `json:"current_stock" binding:"gte=0"`
	MinStock      int     `json:"min_stock" binding:"gte=0"`
	UnitPrice     float64 `json:"unit_price" binding:"gte=0"`
}

type UpdateStockRequest struct {
	Type     string `json:"type" binding:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity int    `json:"quantity" binding:"gte=0"`
	Notes    string `json:"notes"`
}

type RequestItemInput struct {
	MaterialID string `json:"material_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
}

type CreateRequestInput struct {
	ProjectID string             `json:"project_id" binding:"required"`
	UnitID    string             `json:"unit_id"`
	Items     []RequestItemInput `json:"items" binding:"required,min=1,dive"`
	Priority  string             `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Notes     string             `json:"notes"`
}

type MaterialResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	NameLocalized string  `json:"name_localized"`
	Unit          string  `json:"unit"`
	Category      string  `json:"category"`
	CurrentStock  int     `json:"current_stock"`
	MinStock      int     `json:"min_stock"`
	UnitPrice     float64 `json:"unit_price"`
	LowStock      bool    `json:"low_stock"`
	LastUpdated   string  `json:"last_updated"`
}

type MovementResponse struct {
	ID            string `json:"id"`
	MaterialID    string `json:"material_id"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	Note          string `json:"note"`
	RequestID     string `json:"request_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type RequestItemResponse struct {
	MaterialID   string `json:"material_id"`
	MaterialName string `json:"material_name"`
	Unit         string `json:"unit"`
	Quantity     int    `json:"quantity"`
}

type RequestResponse struct {
	ID              string                `json:"id"`
	ProjectID       string                `json:"project_id"`
	UnitID          string                `json:"unit_id,omitempty"`
	RequesterName   string                `json:"requester_name"`
	Status          string                `json:"status"`
	Priority        string                `json:"priority"`
	Notes           string                `json:"notes"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
	Items           []RequestItemResponse `json:"items"`
	CreatedAt       string                `json:"created_at"`
}

// --- Interface ---

// StockService maintains material stock levels and their movement audit trail,
// and drives the material request lifecycle
// (PENDING -> APPROVED/REJECTED -> DELIVERED).
type StockService interface {
	AddMaterial(ctx context.Context, userID string, req AddMaterialRequest) (MaterialResponse, error)
	GetMaterials(ctx context.Context, userID string, page, limit int, search string) ([]MaterialResponse, int64, error)
	GetLowStockMaterials(ctx context.Context, userID string) ([]MaterialResponse, error)
	UpdateStock(ctx context.Context, userID string, materialID string, req UpdateStockRequest) (MaterialResponse, error)
	GetStockMovements(ctx context.Context, userID string, materialID string, page, limit int) ([]MovementResponse, int64, error)
	CreateMaterialRequest(ctx context.Context, userID string, req CreateRequestInput) (RequestResponse, error)
	GetMaterialRequests(ctx context.Context, userID string, status string, page, limit int) ([]RequestResponse, int64, error)
	ApproveMaterialRequest(ctx context.Context, userID string, requestID string) (RequestResponse, error)
	RejectMaterialRequest(ctx context.Context, userID string, requestID string, reason string) (RequestResponse, error)
	DeliverMaterialRequest(ctx context.Context, userID string, requestID string) (RequestResponse, error)
	GetStockStats(ctx context.Context, userID string) (model.StockStats, error)
}

type stockService struct {
	materialRepo repository.MaterialRepository
	movementRepo repository.MovementRepository
	requestRepo  repository.RequestRepository
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	roles        RoleService
	hub          *ws.Hub
}

func NewStockService(
	materialRepo repository.MaterialRepository,
	movementRepo repository.MovementRepository,
	requestRepo repository.RequestRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	roles RoleService,
	hub *ws.Hub,
) StockService {
	return &stockService{
		materialRepo: materialRepo,
		movementRepo: movementRepo,
		requestRepo:  requestRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		roles:        roles,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *stockService) AddMaterial(ctx context.Context, userID string, req AddMaterialRequest) (MaterialResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermManageStock); err != nil {
		return MaterialResponse{}, err
	}

	actor := parseActor(userID)
	material := model.Material{
		Name:          req.Name,
		NameLocalized: req.NameLocalized,
		Unit:          req.Unit,
		Category:      req.Category,
		CurrentStock:  req.CurrentStock,
		MinStock:      req.MinStock,
		UnitPrice:     req.UnitPrice,
		LastUpdated:   time.Now(),
		UpdatedBy:     actor,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.materialRepo.Create(txCtx, &material); err != nil {
			return fmt.Errorf("failed to create material: %w", err)
		}

		// Opening stock is recorded as an IN movement so the trail starts at zero
		if req.CurrentStock > 0 {
			movement := &model.StockMovement{
				MaterialID:    material.ID,
				Type:          model.MovementIn,
				Quantity:      req.CurrentStock,
				PreviousStock: 0,
				NewStock:      req.CurrentStock,
				Note:          "opening stock",
				CreatedBy:     actor,
			}
			if err := s.movementRepo.Create(txCtx, movement); err != nil {
				return fmt.Errorf("failed to record opening movement: %w", err)
			}
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionAddMaterial,
			EntityID:   material.ID.String(),
			EntityName: material.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})

	if err != nil {
		return MaterialResponse{}, err
	}

	return toMaterialResponse(material), nil
}

func (s *stockService) GetMaterials(ctx context.Context, userID string, page, limit int, search string) ([]MaterialResponse, int64, error) {
	if userID == "" {
		return []MaterialResponse{}, 0, nil
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	materials, total, err := s.materialRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch materials: %w", err)
	}

	res := make([]MaterialResponse, 0, len(materials))
	for _, m := range materials {
		res = append(res, toMaterialResponse(m))
	}
	return res, total, nil
}

func (s *stockService) GetLowStockMaterials(ctx context.Context, userID string) ([]MaterialResponse, error) {
	if userID == "" {
		return []MaterialResponse{}, nil
	}

	materials, err := s.materialRepo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low-stock materials: %w", err)
	}

	res := make([]MaterialResponse, 0, len(materials))
	for _, m := range materials {
		res = append(res, toMaterialResponse(m))
	}
	return res, nil
}

func (s *stockService) UpdateStock(ctx context.Context, userID string, materialID string, req UpdateStockRequest) (MaterialResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermManageStock); err != nil {
		return MaterialResponse{}, err
	}

	id, err := uuid.Parse(materialID)
	if err != nil {
		return MaterialResponse{}, fmt.Errorf("invalid material id: %w", err)
	}

	// ADJUSTMENT sets an absolute level, so zero is legal but negative never is
	if req.Quantity < 0 {
		return MaterialResponse{}, errors.New("quantity cannot be negative")
	}
	if (req.Type == model.MovementIn || req.Type == model.MovementOut) && req.Quantity == 0 {
		return MaterialResponse{}, errors.New("quantity must be positive")
	}

	actor := parseActor(userID)
	var material *model.Material

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Row lock serializes concurrent mutations of the same material
		m, findErr := s.materialRepo.FindByIDForUpdate(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("material not found: %s", materialID)
			}
			return fmt.Errorf("failed to load material: %w", findErr)
		}

		previous := m.CurrentStock
		var next int
		switch req.Type {
		case model.MovementIn:
			next = previous + req.Quantity
		case model.MovementOut:
			next = previous - req.Quantity
			if next < 0 {
				return fmt.Errorf("insufficient stock for %s (current: %d, requested: %d)",
					m.Name, previous, req.Quantity)
			}
		case model.MovementAdjustment:
			// Absolute set, not a delta
			next = req.Quantity
		default:
			return fmt.Errorf("unknown movement type: %s", req.Type)
		}

		m.CurrentStock = next
		m.LastUpdated = time.Now()
		m.UpdatedBy = actor
		if updateErr := s.materialRepo.Update(txCtx, m); updateErr != nil {
			return fmt.Errorf("failed to update material stock: %w", updateErr)
		}

		movement := &model.StockMovement{
			MaterialID:    m.ID,
			Type:          req.Type,
			Quantity:      req.Quantity,
			PreviousStock: previous,
			NewStock:      next,
			Note:          req.Notes,
			CreatedBy:     actor,
		}
		if moveErr := s.movementRepo.Create(txCtx, movement); moveErr != nil {
			return fmt.Errorf("failed to record stock movement: %w", moveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"type":           req.Type,
			"quantity":       req.Quantity,
			"previous_stock": previous,
			"new_stock":      next,
			"notes":          req.Notes,
		})
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionUpdateStock,
			EntityID:   m.ID.String(),
			EntityName: m.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		material = m
		return nil
	})

	if err != nil {
		return MaterialResponse{}, err
	}

	s.broadcastStockEvent(*material)
	return toMaterialResponse(*material), nil
}

func (s *stockService) GetStockMovements(ctx context.Context, userID string, materialID string, page, limit int) ([]MovementResponse, int64, error) {
	if userID == "" {
		return []MovementResponse{}, 0, nil
	}

	id, err := uuid.Parse(materialID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid material id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	movements, total, err := s.movementRepo.ListByMaterial(ctx, id, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stock movements: %w", err)
	}

	res := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		res = append(res, toMovementResponse(m))
	}
	return res, total, nil
}

func (s *stockService) CreateMaterialRequest(ctx context.Context, userID string, req CreateRequestInput) (RequestResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermRequestMaterials); err != nil {
		return RequestResponse{}, err
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid project id: %w", err)
	}
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return RequestResponse{}, fmt.Errorf("project not found: %s", req.ProjectID)
	}

	var unitID *uuid.UUID
	if req.UnitID != "" {
		parsed, parseErr := uuid.Parse(req.UnitID)
		if parseErr != nil {
			return RequestResponse{}, fmt.Errorf("invalid unit id: %w", parseErr)
		}
		if _, findErr := s.projectRepo.FindUnitByID(ctx, parsed); findErr != nil {
			return RequestResponse{}, fmt.Errorf("unit not found: %s", req.UnitID)
		}
		unitID = &parsed
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	actor := parseActor(userID)
	requesterName := s.lookupUsername(ctx, actor)

	request := model.MaterialRequest{
		ProjectID:     projectID,
		UnitID:        unitID,
		RequestedBy:   actor,
		RequesterName: requesterName,
		Status:        model.RequestPending,
		Priority:      priority,
		Notes:         req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Snapshot names and units before inserting anything so a missing
		// material aborts the whole request
		type snapshot struct {
			id   uuid.UUID
			name string
			unit string
			qty  int
		}
		snapshots := make([]snapshot, 0, len(req.Items))
		for _, item := range req.Items {
			mid, parseErr := uuid.Parse(item.MaterialID)
			if parseErr != nil {
				return fmt.Errorf("invalid material id: %w", parseErr)
			}
			material, findErr := s.materialRepo.FindByID(txCtx, mid)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("material not found: %s", item.MaterialID)
				}
				return fmt.Errorf("failed to load material %s: %w", item.MaterialID, findErr)
			}
			snapshots = append(snapshots, snapshot{
				id:   material.ID,
				name: material.Name,
				unit: material.Unit,
				qty:  item.Quantity,
			})
		}

		if createErr := s.requestRepo.Create(txCtx, &request); createErr != nil {
			return fmt.Errorf("failed to create material request: %w", createErr)
		}

		for _, snap := range snapshots {
			item := &model.MaterialRequestItem{
				RequestID:    request.ID,
				MaterialID:   snap.id,
				MaterialName: snap.name,
				Unit:         snap.unit,
				Quantity:     snap.qty,
			}
			if itemErr := s.requestRepo.CreateItem(txCtx, item); itemErr != nil {
				return fmt.Errorf("failed to create request item: %w", itemErr)
			}
			request.Items = append(request.Items, *item)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionCreateRequest,
			EntityID:   request.ID.String(),
			EntityName: requesterName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})

	if err != nil {
		return RequestResponse{}, err
	}

	return toRequestResponse(request), nil
}

func (s *stockService) GetMaterialRequests(ctx context.Context, userID string, status string, page, limit int) ([]RequestResponse, int64, error) {
	if userID == "" {
		return []RequestResponse{}, 0, nil
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	requests, total, err := s.requestRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch material requests: %w", err)
	}

	res := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		res = append(res, toRequestResponse(r))
	}
	return res, total, nil
}

func (s *stockService) ApproveMaterialRequest(ctx context.Context, userID string, requestID string) (RequestResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermApproveRequests); err != nil {
		return RequestResponse{}, err
	}

	id, err := uuid.Parse(requestID)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid request id: %w", err)
	}

	actor := parseActor(userID)
	var request *model.MaterialRequest

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requestRepo.FindByIDWithItems(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("material request not found: %s", requestID)
		}

		if r.Status != model.RequestPending {
			return fmt.Errorf("request already processed (status: %s)", r.Status)
		}

		now := time.Now()
		r.Status = model.RequestApproved
		r.ApprovedBy = actor
		r.ApprovedAt = &now
		if saveErr := s.requestRepo.Save(txCtx, r); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"request_id": requestID})
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionApproveRequest,
			EntityID:   r.ID.String(),
			EntityName: r.RequesterName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		request = r
		return nil
	})

	if err != nil {
		return RequestResponse{}, err
	}

	return toRequestResponse(*request), nil
}

func (s *stockService) RejectMaterialRequest(ctx context.Context, userID string, requestID string, reason string) (RequestResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermApproveRequests); err != nil {
		return RequestResponse{}, err
	}

	if reason == "" {
		return RequestResponse{}, errors.New("rejection reason is required")
	}

	id, err := uuid.Parse(requestID)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid request id: %w", err)
	}

	actor := parseActor(userID)
	var request *model.MaterialRequest

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requestRepo.FindByIDWithItems(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("material request not found: %s", requestID)
		}

		if r.Status != model.RequestPending {
			return fmt.Errorf("request already processed (status: %s)", r.Status)
		}

		now := time.Now()
		r.Status = model.RequestRejected
		r.ApprovedBy = actor
		r.ApprovedAt = &now
		r.RejectionReason = reason
		if saveErr := s.requestRepo.Save(txCtx, r); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"request_id": requestID,
			"reason":     reason,
		})
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionRejectRequest,
			EntityID:   r.ID.String(),
			EntityName: r.RequesterName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		request = r
		return nil
	})

	if err != nil {
		return RequestResponse{}, err
	}

	return toRequestResponse(*request), nil
}

// DeliverMaterialRequest deducts every line item from stock in one transaction.
// Any item that would drive its material negative aborts the whole delivery, so
// partial deductions never survive.
func (s *stockService) DeliverMaterialRequest(ctx context.Context, userID string, requestID string) (RequestResponse, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermDeliverMaterials); err != nil {
		return RequestResponse{}, err
	}

	id, err := uuid.Parse(requestID)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid request id: %w", err)
	}

	actor := parseActor(userID)
	var request *model.MaterialRequest
	var touched []model.Material

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requestRepo.FindByIDWithItems(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("material request not found: %s", requestID)
		}

		if r.Status != model.RequestApproved {
			return fmt.Errorf("request is not approved (status: %s)", r.Status)
		}

		for _, item := range r.Items {
			material, lockErr := s.materialRepo.FindByIDForUpdate(txCtx, item.MaterialID)
			if lockErr != nil {
				if errors.Is(lockErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("material not found: %s", item.MaterialID)
				}
				return fmt.Errorf("failed to load material %s: %w", item.MaterialID, lockErr)
			}

			previous := material.CurrentStock
			next := previous - item.Quantity
			if next < 0 {
				return fmt.Errorf("insufficient stock for %s (current: %d, requested: %d)",
					material.Name, previous, item.Quantity)
			}

			material.CurrentStock = next
			material.LastUpdated = time.Now()
			material.UpdatedBy = actor
			if updateErr := s.materialRepo.Update(txCtx, material); updateErr != nil {
				return fmt.Errorf("failed to deduct stock for %s: %w", material.Name, updateErr)
			}

			movement := &model.StockMovement{
				MaterialID:    material.ID,
				Type:          model.MovementOut,
				Quantity:      item.Quantity,
				PreviousStock: previous,
				NewStock:      next,
				Note:          "material request delivery",
				RequestID:     &r.ID,
				CreatedBy:     actor,
			}
			if moveErr := s.movementRepo.Create(txCtx, movement); moveErr != nil {
				return fmt.Errorf("failed to record delivery movement: %w", moveErr)
			}

			touched = append(touched, *material)
		}

		now := time.Now()
		r.Status = model.RequestDelivered
		r.DeliveredBy = actor
		r.DeliveredAt = &now
		if saveErr := s.requestRepo.Save(txCtx, r); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"request_id": requestID,
			"items":      len(r.Items),
		})
		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionDeliverRequest,
			EntityID:   r.ID.String(),
			EntityName: r.RequesterName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		request = r
		return nil
	})

	if err != nil {
		return RequestResponse{}, err
	}

	for _, m := range touched {
		s.broadcastStockEvent(m)
	}
	return toRequestResponse(*request), nil
}

func (s *stockService) GetStockStats(ctx context.Context, userID string) (model.StockStats, error) {
	if userID == "" {
		return model.StockStats{}, nil
	}

	var stats model.StockStats
	var err error

	if stats.TotalMaterials, err = s.materialRepo.CountAll(ctx); err != nil {
		return model.StockStats{}, fmt.Errorf("failed to count materials: %w", err)
	}
	if stats.PendingRequests, err = s.requestRepo.CountByStatus(ctx, model.RequestPending); err != nil {
		return model.StockStats{}, fmt.Errorf("failed to count pending requests: %w", err)
	}
	if stats.ApprovedRequests, err = s.requestRepo.CountByStatus(ctx, model.RequestApproved); err != nil {
		return model.StockStats{}, fmt.Errorf("failed to count approved requests: %w", err)
	}
	if stats.LowStockMaterials, err = s.materialRepo.CountLowStock(ctx); err != nil {
		return model.StockStats{}, fmt.Errorf("failed to count low-stock materials: %w", err)
	}
	if stats.TotalInventoryValue, err = s.materialRepo.TotalInventoryValue(ctx); err != nil {
		return model.StockStats{}, fmt.Errorf("failed to compute inventory value: %w", err)
	}

	return stats, nil
}

// --- Helpers ---

func parseActor(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}

// lookupUsername resolves a display-name snapshot for the request record.
// Best effort: the request keeps the id reference regardless.
func (s *stockService) lookupUsername(ctx context.Context, userID *uuid.UUID) string {
	if userID == nil || s.userRepo == nil {
		return ""
	}
	user, err := s.userRepo.GetByID(ctx, *userID)
	if err != nil {
		return ""
	}
	return user.Username
}

func (s *stockService) broadcastStockEvent(m model.Material) {
	if s.hub == nil {
		return
	}
	event := "stock_updated"
	if m.LowStock() {
		event = "low_stock_alert"
	}
	s.hub.BroadcastEvent(event, map[string]interface{}{
		"material_id":   m.ID.String(),
		"name":          m.Name,
		"current_stock": m.CurrentStock,
		"min_stock":     m.MinStock,
	})
}

func toMaterialResponse(m model.Material) MaterialResponse {
	return MaterialResponse{
		ID:            m.ID.String(),
		Name:          m.Name,
		NameLocalized: m.NameLocalized,
		Unit:          m.Unit,
		Category:      m.Category,
		CurrentStock:  m.CurrentStock,
		MinStock:      m.MinStock,
		UnitPrice:     m.UnitPrice,
		LowStock:      m.LowStock(),
		LastUpdated:   m.LastUpdated.Format("2006-01-02 15:04:05"),
	}
}

func toMovementResponse(m model.StockMovement) MovementResponse {
	requestID := ""
	if m.RequestID != nil {
		requestID = m.RequestID.String()
	}
	return MovementResponse{
		ID:            m.ID.String(),
		MaterialID:    m.MaterialID.String(),
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Note:          m.Note,
		RequestID:     requestID,
		CreatedAt:     m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toRequestResponse(r model.MaterialRequest) RequestResponse {
	items := make([]RequestItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, RequestItemResponse{
			MaterialID:   item.MaterialID.String(),
			MaterialName: item.MaterialName,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
		})
	}

	unitID := ""
	if r.UnitID != nil {
		unitID = r.UnitID.String()
	}

	return RequestResponse{
		ID:              r.ID.String(),
		ProjectID:       r.ProjectID.String(),
		UnitID:          unitID,
		RequesterName:   r.RequesterName,
		Status:          r.Status,
		Priority:        r.Priority,
		Notes:           r.Notes,
		RejectionReason: r.RejectionReason,
		Items:           items,
		CreatedAt:       r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
