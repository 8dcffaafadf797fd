package handler

import (
	"net/http"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/middleware"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/service"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/pagination"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/api/projects")
	{
		projects.GET("", middleware.OptionalAuth(), h.GetProjects)
		projects.POST("", middleware.RequireAuth(), h.CreateProject)
		projects.PUT("/:id", middleware.RequireAuth(), h.UpdateProject)

		projects.GET("/:id/units", middleware.OptionalAuth(), h.GetUnits)
		projects.POST("/:id/units", middleware.RequireAuth(), h.CreateUnit)

		projects.GET("/:id/tasks", middleware.OptionalAuth(), h.GetTasks)
		projects.POST("/:id/tasks", middleware.RequireAuth(), h.CreateTask)
	}

	router.PATCH("/api/tasks/:id/status", middleware.RequireAuth(), h.UpdateTaskStatus)
}

// GetProjects handles GET /api/projects
// @Summary      List projects
// @Description  Retrieves a paginated list of construction projects
// @Tags         projects
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.ProjectResponse}
// @Failure      500    {object}  response.Response
// @Router       /api/projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	projects, total, err := h.projectService.GetProjects(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve projects: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, projects, p.Meta(total)))
}

// CreateProject handles POST /api/projects
// @Summary      Create project
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProjectRequest  true  "Create Project Payload"
// @Success      201      {object}  response.Response{data=service.ProjectResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// UpdateProject handles PUT /api/projects/:id
// @Summary      Update project
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Project ID"
// @Param        payload  body      service.UpdateProjectRequest  true  "Update Project Payload"
// @Success      200      {object}  response.Response{data=service.ProjectResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	project, err := h.projectService.UpdateProject(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// GetUnits handles GET /api/projects/:id/units
// @Summary      List units
// @Description  Retrieves the units (apartments, floors, zones) of a project
// @Tags         projects
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=[]service.UnitResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/projects/{id}/units [get]
func (h *ProjectHandler) GetUnits(c *gin.Context) {
	userID := c.GetString("userID")

	units, err := h.projectService.GetUnits(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, units))
}

// CreateUnit handles POST /api/projects/:id/units
// @Summary      Create unit
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Project ID"
// @Param        payload  body      service.CreateUnitRequest  true  "Create Unit Payload"
// @Success      201      {object}  response.Response{data=service.UnitResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/projects/{id}/units [post]
func (h *ProjectHandler) CreateUnit(c *gin.Context) {
	var req service.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	unit, err := h.projectService.CreateUnit(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, unit))
}

// GetTasks handles GET /api/projects/:id/tasks
// @Summary      List tasks
// @Description  Retrieves the tasks of a project, optionally filtered by status
// @Tags         projects
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true   "Project ID"
// @Param        status  query     string  false  "Filter by status (TODO, IN_PROGRESS, DONE)"
// @Success      200     {object}  response.Response{data=[]service.TaskResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/projects/{id}/tasks [get]
func (h *ProjectHandler) GetTasks(c *gin.Context) {
	userID := c.GetString("userID")
	status := c.Query("status")

	tasks, err := h.projectService.GetTasks(c.Request.Context(), userID, c.Param("id"), status)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tasks))
}

// CreateTask handles POST /api/projects/:id/tasks
// @Summary      Create task
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Project ID"
// @Param        payload  body      service.CreateTaskRequest  true  "Create Task Payload"
// @Success      201      {object}  response.Response{data=service.TaskResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/projects/{id}/tasks [post]
func (h *ProjectHandler) CreateTask(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	task, err := h.projectService.CreateTask(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, task))
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
// @Summary      Update task status
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Task ID"
// @Param        payload  body      service.UpdateTaskRequest  true  "Update Task Payload"
// @Success      200      {object}  response.Response{data=service.TaskResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/tasks/{id}/status [patch]
func (h *ProjectHandler) UpdateTaskStatus(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	task, err := h.projectService.UpdateTaskStatus(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, task))
}
