package handler

import (
	"net/http"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/middleware"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/service"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/pagination"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockService
}

func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	materials := router.Group("/api/materials")
	{
		materials.GET("", middleware.OptionalAuth(), h.GetMaterials)
		materials.GET("/low-stock", middleware.OptionalAuth(), h.GetLowStockMaterials)
		materials.POST("", middleware.RequireAuth(), h.AddMaterial)
		materials.PATCH("/:id/stock", middleware.RequireAuth(), h.UpdateStock)
		materials.GET("/:id/movements", middleware.OptionalAuth(), h.GetStockMovements)
	}

	requests := router.Group("/api/material-requests")
	{
		requests.GET("", middleware.OptionalAuth(), h.GetMaterialRequests)
		requests.POST("", middleware.RequireAuth(), h.CreateMaterialRequest)
		requests.PATCH("/:id/approve", middleware.RequireAuth(), h.ApproveMaterialRequest)
		requests.PATCH("/:id/reject", middleware.RequireAuth(), h.RejectMaterialRequest)
		requests.PATCH("/:id/deliver", middleware.RequireAuth(), h.DeliverMaterialRequest)
	}

	router.GET("/api/stock/stats", middleware.OptionalAuth(), h.GetStockStats)
}

// GetMaterials handles GET /api/materials
// @Summary      List materials
// @Description  Retrieves a paginated list of materials with current stock levels
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by material name"
// @Success      200     {object}  response.Response{data=[]service.MaterialResponse}
// @Failure      500     {object}  response.Response
// @Router       /api/materials [get]
func (h *StockHandler) GetMaterials(c *gin.Context) {
	p := pagination.Parse(c)
	search := c.Query("search")
	userID := c.GetString("userID")

	materials, total, err := h.stockService.GetMaterials(c.Request.Context(), userID, p.Page, p.Limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve materials: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, materials, p.Meta(total)))
}

// GetLowStockMaterials handles GET /api/materials/low-stock
// @Summary      List low-stock materials
// @Description  Retrieves materials whose current stock is at or below their minimum threshold
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.MaterialResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/materials/low-stock [get]
func (h *StockHandler) GetLowStockMaterials(c *gin.Context) {
	userID := c.GetString("userID")

	materials, err := h.stockService.GetLowStockMaterials(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, materials))
}

// AddMaterial handles POST /api/materials
// @Summary      Add material
// @Description  Creates a material in the catalog and records its opening stock as an IN movement
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddMaterialRequest  true  "Add Material Payload"
// @Success      201      {object}  response.Response{data=service.MaterialResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/materials [post]
func (h *StockHandler) AddMaterial(c *gin.Context) {
	var req service.AddMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	material, err := h.stockService.AddMaterial(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, material))
}

// UpdateStock handles PATCH /api/materials/:id/stock
// @Summary      Update stock
// @Description  Applies an IN, OUT, or ADJUSTMENT movement to a material under a row lock. OUT never drives stock negative.
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Material ID"
// @Param        payload  body      service.UpdateStockRequest  true  "Stock Movement Payload"
// @Success      200      {object}  response.Response{data=service.MaterialResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/materials/{id}/stock [patch]
func (h *StockHandler) UpdateStock(c *gin.Context) {
	var req service.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	material, err := h.stockService.UpdateStock(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// GetStockMovements handles GET /api/materials/:id/movements
// @Summary      List stock movements
// @Description  Retrieves the paginated movement history of a material, newest first
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Material ID"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.MovementResponse}
// @Failure      400    {object}  response.Response
// @Router       /api/materials/{id}/movements [get]
func (h *StockHandler) GetStockMovements(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	movements, total, err := h.stockService.GetStockMovements(c.Request.Context(), userID, c.Param("id"), p.Page, p.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, movements, p.Meta(total)))
}

// CreateMaterialRequest handles POST /api/material-requests
// @Summary      Create material request
// @Description  Creates a PENDING material request after validating every line item against the catalog
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRequestInput  true  "Create Request Payload"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/material-requests [post]
func (h *StockHandler) CreateMaterialRequest(c *gin.Context) {
	var req service.CreateRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	created, err := h.stockService.CreateMaterialRequest(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// GetMaterialRequests handles GET /api/material-requests
// @Summary      List material requests
// @Description  Retrieves paginated material requests, optionally filtered by status
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (PENDING, APPROVED, REJECTED, DELIVERED)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.RequestResponse}
// @Failure      500     {object}  response.Response
// @Router       /api/material-requests [get]
func (h *StockHandler) GetMaterialRequests(c *gin.Context) {
	p := pagination.Parse(c)
	status := c.Query("status")
	userID := c.GetString("userID")

	requests, total, err := h.stockService.GetMaterialRequests(c.Request.Context(), userID, status, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, requests, p.Meta(total)))
}

// ApproveMaterialRequest handles PATCH /api/material-requests/:id/approve
// @Summary      Approve material request
// @Description  Moves a PENDING request to APPROVED. Stock is untouched until delivery.
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/material-requests/{id}/approve [patch]
func (h *StockHandler) ApproveMaterialRequest(c *gin.Context) {
	userID := c.GetString("userID")

	updated, err := h.stockService.ApproveMaterialRequest(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, updated))
}

// RejectMaterialRequest handles PATCH /api/material-requests/:id/reject
// @Summary      Reject material request
// @Description  Moves a PENDING request to REJECTED with a mandatory reason
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Request ID"
// @Param        payload  body      object  true  "Rejection Payload"
// @Success      200      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/material-requests/{id}/reject [patch]
func (h *StockHandler) RejectMaterialRequest(c *gin.Context) {
	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Rejection reason is required"))
		return
	}

	userID := c.GetString("userID")

	updated, err := h.stockService.RejectMaterialRequest(c.Request.Context(), userID, c.Param("id"), body.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, updated))
}

// DeliverMaterialRequest handles PATCH /api/material-requests/:id/deliver
// @Summary      Deliver material request
// @Description  Deducts stock for every line item and marks the request DELIVERED in one transaction. Any shortage rolls back the whole delivery.
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/material-requests/{id}/deliver [patch]
func (h *StockHandler) DeliverMaterialRequest(c *gin.Context) {
	userID := c.GetString("userID")

	updated, err := h.stockService.DeliverMaterialRequest(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, updated))
}

// GetStockStats handles GET /api/stock/stats
// @Summary      Get stock statistics
// @Description  Returns aggregate counts over materials and requests plus the total inventory value
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.StockStats}
// @Failure      500  {object}  response.Response
// @Router       /api/stock/stats [get]
func (h *StockHandler) GetStockStats(c *gin.Context) {
	userID := c.GetString("userID")

	stats, err := h.stockService.GetStockStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
