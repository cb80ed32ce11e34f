package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
)

type ConsultationController struct {
	consultationService service.ConsultationService
}

func NewConsultationController(consultationService service.ConsultationService) *ConsultationController {
	return &ConsultationController{consultationService: consultationService}
}

type ConsultationRequest struct {
	ShopID           string                 `json:"shop_id"`
	Name             string                 `json:"name"`
	Phone            string                 `json:"phone"`
	ProductName      string                 `json:"product_name"`
	Memo             string                 `json:"memo"`
	ConsultationDate string                 `json:"consultation_date"`
	SalesPerson      string                 `json:"sales_person"`
	ActivationStatus model.ActivationStatus `json:"activation_status"`
	InflowType       string                 `json:"inflow_type"`
}

type ConsultationPatchRequest struct {
	Name             *string                 `json:"name"`
	Phone            *string                 `json:"phone"`
	ProductName      *string                 `json:"product_name"`
	Memo             *string                 `json:"memo"`
	ConsultationDate *string                 `json:"consultation_date"`
	SalesPerson      *string                 `json:"sales_person"`
	ActivationStatus *model.ActivationStatus `json:"activation_status"`
	InflowType       *string                 `json:"inflow_type"`
}

// ListConsultations
// GET /api/v1/crm/consultations?shop_id&from&to&status&q&limit&offset
func (ctrl *ConsultationController) ListConsultations(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	items, total, err := ctrl.consultationService.List(c.Request.Context(), auth, service.ConsultationQuery{
		ShopID: c.Query("shop_id"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Status: model.ActivationStatus(c.Query("status")),
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, err, "list consultations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consultations": items,
		"total":         total,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetConsultation
// GET /api/v1/crm/consultations/:id
func (ctrl *ConsultationController) GetConsultation(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	item, err := ctrl.consultationService.Get(c.Request.Context(), auth, c.Param("id"))
	if err != nil {
		respondError(c, err, "get consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultation": item})
}

// CreateConsultation
// POST /api/v1/crm/consultations
func (ctrl *ConsultationController) CreateConsultation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	item, err := ctrl.consultationService.Create(c.Request.Context(), auth, service.ConsultationInput{
		ShopID:           req.ShopID,
		Name:             req.Name,
		Phone:            req.Phone,
		ProductName:      req.ProductName,
		Memo:             req.Memo,
		ConsultationDate: req.ConsultationDate,
		SalesPerson:      req.SalesPerson,
		ActivationStatus: req.ActivationStatus,
		InflowType:       req.InflowType,
	})
	if err != nil {
		respondError(c, err, "create consultation")
		return
	}

	log.Info("Consultation created", map[string]interface{}{
		"consultation_id": item.ID,
		"shop_id":         item.ShopID,
	})
	c.JSON(http.StatusCreated, gin.H{"consultation": item})
}

// UpdateConsultation
// PATCH /api/v1/crm/consultations/:id
func (ctrl *ConsultationController) UpdateConsultation(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req ConsultationPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	item, err := ctrl.consultationService.Update(c.Request.Context(), auth, c.Param("id"), service.ConsultationPatch{
		Name:             req.Name,
		Phone:            req.Phone,
		ProductName:      req.ProductName,
		Memo:             req.Memo,
		ConsultationDate: req.ConsultationDate,
		SalesPerson:      req.SalesPerson,
		ActivationStatus: req.ActivationStatus,
		InflowType:       req.InflowType,
	})
	if err != nil {
		respondError(c, err, "update consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultation": item})
}

// DeleteConsultation
// DELETE /api/v1/crm/consultations/:id
func (ctrl *ConsultationController) DeleteConsultation(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	if err := ctrl.consultationService.Delete(c.Request.Context(), auth, c.Param("id")); err != nil {
		respondError(c, err, "delete consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consultation deleted"})
}

// Stats
// GET /api/v1/crm/consultations/stats?shop_id&month
func (ctrl *ConsultationController) Stats(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	stats, err := ctrl.consultationService.Stats(c.Request.Context(), auth, c.Query("shop_id"), c.Query("month"))
	if err != nil {
		respondError(c, err, "consultation stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// MoveToReport promotes an activated consultation to a ledger entry, once
// POST /api/v1/crm/consultations/:id/move-to-report
func (ctrl *ConsultationController) MoveToReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	auth, ok := authContext(c)
	if !ok {
		return
	}

	id := c.Param("id")
	report, err := ctrl.consultationService.MoveToReport(c.Request.Context(), auth, id)
	if err != nil {
		respondError(c, err, "move consultation to report")
		return
	}

	log.Info("Consultation moved to report", map[string]interface{}{
		"consultation_id": id,
		"report_id":       report.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "판매일보로 이동되었습니다",
		"report":  report,
	})
}
