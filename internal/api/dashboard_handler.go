package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// GetStats godoc
// @Summary Dashboard summary for the caller
// @Description Recent workouts and weekly totals cover today and the previous seven days; personal records are all-time.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} DashboardResponse
// @Security BearerAuth
// @Router /dashboard/stats/ [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	stats, err := h.dashboardService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapDashboardToResponse(stats))
}
