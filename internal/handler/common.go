package handler

import (
	"errors"
	"net/http"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/service"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service-layer errors onto HTTP status codes.
// Auth failures map to 401/403; everything else surfaces as 400 since the
// services validate input before touching storage.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}
