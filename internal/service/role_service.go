package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type AssignRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type RoleInfo struct {
	Role        string   `json:"role"`
	Weight      int      `json:"weight"`
	Permissions []string `json:"permissions"`
}

type RoleAssignmentResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	AssignedBy string `json:"assigned_by"`
	Active     bool   `json:"active"`
	AssignedAt string `json:"assigned_at"`
}

// --- Interface ---

// RoleService resolves effective roles and guards the assignment mutation.
// Reads fail closed: a missing identity yields empty results, never an error.
type RoleService interface {
	GetMyRole(ctx context.Context, userID string) (string, error)
	GetMyRoleWithPermissions(ctx context.Context, userID string) (*RoleInfo, error)
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
	RequirePermission(ctx context.Context, userID, permission string) error
	AssignRole(ctx context.Context, callerID string, req AssignRoleRequest) (*RoleAssignmentResponse, error)
	ListAssignments(ctx context.Context, page, limit int) ([]RoleAssignmentResponse, int64, error)
}

type roleService struct {
	roleRepo  repository.RoleRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewRoleService(
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) RoleService {
	return &roleService{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

// --- Implementation ---

// resolveFor gathers the three resolution inputs and feeds model.ResolveRole.
func (s *roleService) resolveFor(ctx context.Context, userID uuid.UUID) (string, error) {
	assignment, err := s.roleRepo.FindActiveAssignment(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to look up role assignment: %w", err)
	}

	assignedRole := ""
	if assignment != nil {
		assignedRole = assignment.Role
	}

	inRoster, err := s.userRepo.IsEngineer(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to check engineer roster: %w", err)
	}

	total, err := s.roleRepo.CountAssignments(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count role assignments: %w", err)
	}

	return model.ResolveRole(assignedRole, inRoster, total > 0), nil
}

func (s *roleService) GetMyRole(ctx context.Context, userID string) (string, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		// No usable identity — reads degrade to empty
		return "", nil
	}
	return s.resolveFor(ctx, uid)
}

func (s *roleService) GetMyRoleWithPermissions(ctx context.Context, userID string) (*RoleInfo, error) {
	role, err := s.GetMyRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, nil
	}

	perms := model.RolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)

	return &RoleInfo{
		Role:        role,
		Weight:      model.RoleWeights[role],
		Permissions: out,
	}, nil
}

func (s *roleService) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	role, err := s.GetMyRole(ctx, userID)
	if err != nil {
		return false, err
	}
	if role == "" {
		return false, nil
	}
	return model.HasRolePermission(role, permission), nil
}

// RequirePermission is the write-side gate: missing identity and missing
// permission both fail with an error.
func (s *roleService) RequirePermission(ctx context.Context, userID, permission string) error {
	if userID == "" {
		return ErrAuthRequired
	}

	ok, err := s.HasPermission(ctx, userID, permission)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: missing '%s'", ErrAccessDenied, permission)
	}
	return nil
}

func (s *roleService) AssignRole(ctx context.Context, callerID string, req AssignRoleRequest) (*RoleAssignmentResponse, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}

	caller, err := uuid.Parse(callerID)
	if err != nil {
		return nil, ErrAuthRequired
	}

	callerRole, err := s.resolveFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	if callerRole != model.RoleAdmin && callerRole != model.RoleActingManager {
		return nil, fmt.Errorf("%w: only admin or acting_manager may assign roles", ErrAccessDenied)
	}

	if !model.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role '%s'", req.Role)
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %s", req.UserID)
	}

	assignment := model.RoleAssignment{
		UserID:     targetID,
		Role:       req.Role,
		AssignedBy: &caller,
		Active:     true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Deactivate any previous active row first so at most one stays active
		if err := s.roleRepo.DeactivateAssignments(txCtx, targetID); err != nil {
			return fmt.Errorf("failed to deactivate previous assignments: %w", err)
		}

		if err := s.roleRepo.Create(txCtx, &assignment); err != nil {
			return fmt.Errorf("failed to create role assignment: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"target_user": req.UserID,
			"role":        req.Role,
		})
		audit := &model.AuditLog{
			UserID:     &caller,
			Action:     model.ActionAssignRole,
			EntityID:   assignment.ID.String(),
			EntityName: target.Username,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &RoleAssignmentResponse{
		ID:         assignment.ID.String(),
		UserID:     targetID.String(),
		Username:   target.Username,
		Role:       assignment.Role,
		AssignedBy: callerID,
		Active:     true,
		AssignedAt: assignment.AssignedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func (s *roleService) ListAssignments(ctx context.Context, page, limit int) ([]RoleAssignmentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	assignments, total, err := s.roleRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch role assignments: %w", err)
	}

	res := make([]RoleAssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		username := ""
		if a.User != nil {
			username = a.User.Username
		}
		assignedBy := ""
		if a.AssignedBy != nil {
			assignedBy = a.AssignedBy.String()
		}
		res = append(res, RoleAssignmentResponse{
			ID:         a.ID.String(),
			UserID:     a.UserID.String(),
			Username:   username,
			Role:       a.Role,
			AssignedBy: assignedBy,
			Active:     a.Active,
			AssignedAt: a.AssignedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
