package handler

import (
	"net/http"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/middleware"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/service"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/pagination"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	payoutService service.PayoutService
}

func NewPayoutHandler(payoutService service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

func (h *PayoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	payouts := router.Group("/api/payouts")
	{
		payouts.POST("", middleware.RequireAuth(), h.CreatePayout)
		payouts.GET("/summary", middleware.RequireAuth(), h.GetPayoutSummary)
	}

	projects := router.Group("/api/projects")
	{
		projects.GET("/:id/payouts", middleware.OptionalAuth(), h.GetPayouts)
		projects.GET("/:id/wallet", middleware.OptionalAuth(), h.GetProjectWallet)
	}
}

// CreatePayout handles POST /api/payouts
// @Summary      Create payout
// @Description  Records a payment against a project's budget
// @Tags         payouts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePayoutRequest  true  "Create Payout Payload"
// @Success      201      {object}  response.Response{data=service.PayoutResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/payouts [post]
func (h *PayoutHandler) CreatePayout(c *gin.Context) {
	var req service.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	payout, err := h.payoutService.CreatePayout(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payout))
}

// GetPayoutSummary handles GET /api/payouts/summary
// @Summary      Get payout summary
// @Description  Returns the total amount paid out across all projects
// @Tags         payouts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.PayoutSummary}
// @Failure      403  {object}  response.Response
// @Router       /api/payouts/summary [get]
func (h *PayoutHandler) GetPayoutSummary(c *gin.Context) {
	userID := c.GetString("userID")

	summary, err := h.payoutService.GetPayoutSummary(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetPayouts handles GET /api/projects/:id/payouts
// @Summary      List payouts
// @Description  Retrieves a project's paginated payout history, newest first
// @Tags         payouts
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Project ID"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.PayoutResponse}
// @Failure      400    {object}  response.Response
// @Router       /api/projects/{id}/payouts [get]
func (h *PayoutHandler) GetPayouts(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	payouts, total, err := h.payoutService.GetPayouts(c.Request.Context(), userID, c.Param("id"), p.Page, p.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, payouts, p.Meta(total)))
}

// GetProjectWallet handles GET /api/projects/:id/wallet
// @Summary      Get project wallet
// @Description  Folds the project's budget, total paid, and remaining balance from its payout history
// @Tags         payouts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=model.ProjectWallet}
// @Failure      400  {object}  response.Response
// @Router       /api/projects/{id}/wallet [get]
func (h *PayoutHandler) GetProjectWallet(c *gin.Context) {
	userID := c.GetString("userID")

	wallet, err := h.payoutService.GetProjectWallet(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, wallet))
}
