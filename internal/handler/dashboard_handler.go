package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/service"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/response"
)

// DashboardHandler exposes the landing-page aggregates.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns aggregates scoped to the requested session, defaulting
// to the current one.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), c.Query("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
