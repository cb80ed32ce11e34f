package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Stats
// GET /api/v1/dashboard/stats?shop_id&month
func (ctrl *DashboardController) Stats(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	stats, err := ctrl.dashboardService.Stats(c.Request.Context(), auth, c.Query("shop_id"), c.Query("month"))
	if err != nil {
		respondError(c, err, "dashboard stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
