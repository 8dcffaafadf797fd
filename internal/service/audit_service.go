package service

import (
	"context"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, userID string, action string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
	roles     RoleService
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository, roles RoleService) AuditService {
	return &auditService{auditRepo: auditRepo, roles: roles}
}

// GetAuditLogs retrieves strictly paginated records with users pre-loaded,
// optionally narrowed to a single action
func (s *auditService) GetAuditLogs(ctx context.Context, userID string, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	if err := s.roles.RequirePermission(ctx, userID, model.PermViewAuditLog); err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	logs, total, err := s.auditRepo.List(ctx, action, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		uid := ""
		if l.User != nil {
			username = l.User.Username
		}
		if l.UserID != nil {
			uid = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     uid,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
