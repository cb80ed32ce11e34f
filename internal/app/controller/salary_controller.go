package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SalaryController struct {
	salaryService service.SalaryService
}

func NewSalaryController(salaryService service.SalaryService) *SalaryController {
	return &SalaryController{salaryService: salaryService}
}

type SaveSalaryRequest struct {
	ShopID string `json:"shop_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Compute
// GET /api/v1/salaries?shop_id&from&to
func (ctrl *SalaryController) Compute(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	report, err := ctrl.salaryService.Compute(c.Request.Context(), auth, c.Query("shop_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err, "compute salaries")
		return
	}

	c.JSON(http.StatusOK, gin.H{"salary": report})
}

// Save appends one snapshot per sales person
// POST /api/v1/salaries
func (ctrl *SalaryController) Save(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req SaveSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	snapshots, err := ctrl.salaryService.Save(c.Request.Context(), auth, req.ShopID, req.From, req.To)
	if err != nil {
		respondError(c, err, "save salaries")
		return
	}

	log.Info("Salary snapshots saved", map[string]interface{}{
		"count": len(snapshots),
	})
	c.JSON(http.StatusCreated, gin.H{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// History
// GET /api/v1/salaries/history?shop_id
func (ctrl *SalaryController) History(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	snapshots, err := ctrl.salaryService.History(c.Request.Context(), auth, c.Query("shop_id"))
	if err != nil {
		respondError(c, err, "salary history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// Export downloads the computed table as xlsx
// GET /api/v1/salaries/export?shop_id&from&to
func (ctrl *SalaryController) Export(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	from, to := c.Query("from"), c.Query("to")
	data, err := ctrl.salaryService.Export(c.Request.Context(), auth, c.Query("shop_id"), from, to)
	if err != nil {
		respondError(c, err, "export salaries")
		return
	}

	filename := "salary.xlsx"
	if from != "" && to != "" {
		filename = fmt.Sprintf("salary_%s_%s.xlsx", from, to)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
