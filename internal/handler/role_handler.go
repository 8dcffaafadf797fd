package handler

import (
	"net/http"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/middleware"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/service"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/pagination"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/api/roles")
	{
		// Reads tolerate missing identity and degrade to empty results
		roles.GET("/me", middleware.OptionalAuth(), h.GetMyRole)
		roles.GET("/me/permissions", middleware.OptionalAuth(), h.GetMyRoleWithPermissions)
		roles.GET("/check", middleware.OptionalAuth(), h.CheckPermission)

		roles.POST("/assign", middleware.RequireAuth(), h.AssignRole)
		roles.GET("/assignments", middleware.RequireAuth(), h.ListAssignments)
	}
}

// GetMyRole handles GET /api/roles/me
// @Summary      Get my role
// @Description  Resolves the caller's effective role: assignment, then roster, then bootstrap admin, then the engineering_lead default
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/roles/me [get]
func (h *RoleHandler) GetMyRole(c *gin.Context) {
	userID := c.GetString("userID")

	role, err := h.roleService.GetMyRole(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"role": role,
	}))
}

// GetMyRoleWithPermissions handles GET /api/roles/me/permissions
// @Summary      Get my role with permissions
// @Description  Resolves the caller's effective role and the static permission list attached to it
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.RoleInfo}
// @Router       /api/roles/me/permissions [get]
func (h *RoleHandler) GetMyRoleWithPermissions(c *gin.Context) {
	userID := c.GetString("userID")

	info, err := h.roleService.GetMyRoleWithPermissions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, info))
}

// CheckPermission handles GET /api/roles/check
// @Summary      Check a permission
// @Description  Returns whether the caller's effective role grants the given permission
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        permission  query     string  true  "Permission code"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/roles/check [get]
func (h *RoleHandler) CheckPermission(c *gin.Context) {
	permission := c.Query("permission")
	if permission == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Permission query parameter is missing"))
		return
	}

	userID := c.GetString("userID")

	allowed, err := h.roleService.HasPermission(c.Request.Context(), userID, permission)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"permission": permission,
		"allowed":    allowed,
	}))
}

// AssignRole handles POST /api/roles/assign
// @Summary      Assign a role
// @Description  Assigns a role to a user, deactivating any previous assignment. Admin or acting_manager only.
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AssignRoleRequest  true  "Assign Role Payload"
// @Success      201      {object}  response.Response{data=service.RoleAssignmentResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/roles/assign [post]
func (h *RoleHandler) AssignRole(c *gin.Context) {
	var req service.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	assignment, err := h.roleService.AssignRole(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, assignment))
}

// ListAssignments handles GET /api/roles/assignments
// @Summary      List role assignments
// @Description  Retrieves a paginated history of role assignments
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.RoleAssignmentResponse}
// @Failure      500    {object}  response.Response
// @Router       /api/roles/assignments [get]
func (h *RoleHandler) ListAssignments(c *gin.Context) {
	p := pagination.Parse(c)

	assignments, total, err := h.roleService.ListAssignments(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, assignments, p.Meta(total)))
}
