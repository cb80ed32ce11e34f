package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
)

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

type SettingsPatchRequest struct {
	ShopID             string   `json:"shop_id"`
	MarginRatePct      *float64 `json:"margin_rate_pct"`
	SalesTargetMonthly *int64   `json:"sales_target_monthly"`
	PerSaleIncentive   *int64   `json:"per_sale_incentive"`
}

// GetSettings returns the stored row or the defaults
// GET /api/v1/shop-settings?shop_id
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	settings, err := ctrl.settingsService.Get(c.Request.Context(), auth, c.Query("shop_id"))
	if err != nil {
		respondError(c, err, "get shop settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings
// PATCH /api/v1/shop-settings
func (ctrl *SettingsController) UpdateSettings(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req SettingsPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	settings, err := ctrl.settingsService.Update(c.Request.Context(), auth, service.SettingsPatch{
		ShopID:             req.ShopID,
		MarginRatePct:      req.MarginRatePct,
		SalesTargetMonthly: req.SalesTargetMonthly,
		PerSaleIncentive:   req.PerSaleIncentive,
	})
	if err != nil {
		respondError(c, err, "update shop settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
