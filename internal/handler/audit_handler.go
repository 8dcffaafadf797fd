package handler

import (
	"net/http"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/middleware"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/service"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/pagination"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/audit-logs", middleware.RequireAuth(), h.GetAuditLogs)
}

// GetAuditLogs handles GET /api/audit-logs
// @Summary      Get audit logs
// @Description  Retrieves a paginated audit trail of system mutations, newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action  query     string  false  "Filter by action"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.AuditLogResponse}
// @Failure      403     {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), userID, c.Query("action"), p.Page, p.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, logs, p.Meta(total)))
}
