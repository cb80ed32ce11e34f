package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	apperrors "github.com/ikkim/phonedesk-backend/internal/errors"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
	"github.com/ikkim/phonedesk-backend/internal/storage"
)

// MaxLedgerFileSize 업로드 판매일보 최대 크기
const MaxLedgerFileSize = 20 << 20

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

type ReportRequest struct {
	ShopID         string  `json:"shop_id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	SaleDate       string  `json:"sale_date"`
	ProductName    string  `json:"product_name"`
	Amount         float64 `json:"amount"`
	Margin         float64 `json:"margin"`
	SalesPerson    string  `json:"sales_person"`
	SupportAmount  float64 `json:"support_amount"`
	Carrier        string  `json:"carrier"`
	ActivationType string  `json:"activation_type"`
	PlanName       string  `json:"plan_name"`
	InflowType     string  `json:"inflow_type"`
	SerialNumber   string  `json:"serial_number"`
	Memo           string  `json:"memo"`
}

type ReportPatchRequest struct {
	Name           *string  `json:"name"`
	Phone          *string  `json:"phone"`
	SaleDate       *string  `json:"sale_date"`
	ProductName    *string  `json:"product_name"`
	Amount         *float64 `json:"amount"`
	Margin         *float64 `json:"margin"`
	SalesPerson    *string  `json:"sales_person"`
	SupportAmount  *float64 `json:"support_amount"`
	Carrier        *string  `json:"carrier"`
	ActivationType *string  `json:"activation_type"`
	PlanName       *string  `json:"plan_name"`
	InflowType     *string  `json:"inflow_type"`
	SerialNumber   *string  `json:"serial_number"`
	Memo           *string  `json:"memo"`
}

type CheckDuplicateRequest struct {
	ShopID   string `json:"shop_id"`
	FileHash string `json:"file_hash" binding:"required"`
}

type ImportRowsRequest struct {
	ShopID  string   `json:"shop_id"`
	Headers []string `json:"headers" binding:"required"`
	Rows    [][]any  `json:"rows"`
}

type ImportGoogleSheetRequest struct {
	ShopID string `json:"shop_id"`
	URL    string `json:"url" binding:"required"`
}

// ListReports
// GET /api/v1/reports?shop_id&from&to&sales_person&limit&offset
func (ctrl *ReportController) ListReports(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	entries, total, err := ctrl.reportService.List(c.Request.Context(), auth, service.ReportQuery{
		ShopID:      c.Query("shop_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		SalesPerson: c.Query("sales_person"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		respondError(c, err, "list reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetReport
// GET /api/v1/reports/:id
func (ctrl *ReportController) GetReport(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	entry, err := ctrl.reportService.Get(c.Request.Context(), auth, c.Param("id"))
	if err != nil {
		respondError(c, err, "get report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": entry})
}

// CreateReport
// POST /api/v1/reports
func (ctrl *ReportController) CreateReport(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	entry, err := ctrl.reportService.Create(c.Request.Context(), auth, service.ReportInput{
		ShopID:         req.ShopID,
		Name:           req.Name,
		Phone:          req.Phone,
		SaleDate:       req.SaleDate,
		ProductName:    req.ProductName,
		Amount:         req.Amount,
		Margin:         req.Margin,
		SalesPerson:    req.SalesPerson,
		SupportAmount:  req.SupportAmount,
		Carrier:        req.Carrier,
		ActivationType: req.ActivationType,
		PlanName:       req.PlanName,
		InflowType:     req.InflowType,
		SerialNumber:   req.SerialNumber,
		Memo:           req.Memo,
	})
	if err != nil {
		respondError(c, err, "create report")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"report": entry})
}

// UpdateReport
// PATCH /api/v1/reports/:id
func (ctrl *ReportController) UpdateReport(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req ReportPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	entry, err := ctrl.reportService.Update(c.Request.Context(), auth, c.Param("id"), service.ReportPatch{
		Name:           req.Name,
		Phone:          req.Phone,
		SaleDate:       req.SaleDate,
		ProductName:    req.ProductName,
		Amount:         req.Amount,
		Margin:         req.Margin,
		SalesPerson:    req.SalesPerson,
		SupportAmount:  req.SupportAmount,
		Carrier:        req.Carrier,
		ActivationType: req.ActivationType,
		PlanName:       req.PlanName,
		InflowType:     req.InflowType,
		SerialNumber:   req.SerialNumber,
		Memo:           req.Memo,
	})
	if err != nil {
		respondError(c, err, "update report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": entry})
}

// DeleteReport
// DELETE /api/v1/reports/:id
func (ctrl *ReportController) DeleteReport(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	if err := ctrl.reportService.Delete(c.Request.Context(), auth, c.Param("id")); err != nil {
		respondError(c, err, "delete report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

// CheckDuplicate answers 409 when the file was already imported into the shop
// POST /api/v1/reports/check-duplicate
func (ctrl *ReportController) CheckDuplicate(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req CheckDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	if err := ctrl.reportService.CheckDuplicate(c.Request.Context(), auth, req.ShopID, req.FileHash); err != nil {
		respondError(c, err, "check duplicate upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{"duplicate": false})
}

// ImportFile ingests an uploaded workbook or CSV
// POST /api/v1/reports/import (multipart: file, shop_id)
func (ctrl *ReportController) ImportFile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	auth, ok := authContext(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("No file in import request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "파일을 선택해주세요")
		return
	}
	if err := storage.ValidateFileSize(fileHeader.Size, MaxLedgerFileSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "파일 크기는 20MB를 넘을 수 없습니다")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, nil)
		apperrors.BadRequest(c, apperrors.ReportUnreadableFile, "파일을 읽을 수 없습니다")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read uploaded file", err, nil)
		apperrors.BadRequest(c, apperrors.ReportUnreadableFile, "파일을 읽을 수 없습니다")
		return
	}

	result, err := ctrl.reportService.ImportFile(c.Request.Context(), auth, c.PostForm("shop_id"), fileHeader.Filename, data)
	ctrl.respondImport(c, result, err, "import ledger file")
}

// ImportRows ingests rows already parsed by the client
// POST /api/v1/reports/import-rows
func (ctrl *ReportController) ImportRows(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req ImportRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	result, err := ctrl.reportService.ImportRows(c.Request.Context(), auth, req.ShopID, req.Headers, req.Rows)
	ctrl.respondImport(c, result, err, "import ledger rows")
}

// ImportGoogleSheet
// POST /api/v1/reports/import-google-sheets
func (ctrl *ReportController) ImportGoogleSheet(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req ImportGoogleSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	result, err := ctrl.reportService.ImportGoogleSheet(c.Request.Context(), auth, req.ShopID, req.URL)
	ctrl.respondImport(c, result, err, "import google sheet")
}

// respondImport returns the mapper's row errors along with a no-rows failure.
func (ctrl *ReportController) respondImport(c *gin.Context, result *service.ImportResult, err error, action string) {
	if errors.Is(err, service.ErrNoMappedRows) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   apperrors.ReportNoMappedRows,
			"message": err.Error(),
			"result":  result,
		})
		return
	}
	if err != nil {
		respondError(c, err, action)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Ledger imported", map[string]interface{}{
		"action":   action,
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "판매일보가 등록되었습니다",
		"result":  result,
	})
}

// ListUploads
// GET /api/v1/reports/uploads?shop_id
func (ctrl *ReportController) ListUploads(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	uploads, err := ctrl.reportService.ListUploads(c.Request.Context(), auth, c.Query("shop_id"))
	if err != nil {
		respondError(c, err, "list uploads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploads": uploads,
		"count":   len(uploads),
	})
}

// UploadDownloadURL returns a short-lived link to the archived original
// GET /api/v1/reports/uploads/:id/download
func (ctrl *ReportController) UploadDownloadURL(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	url, err := ctrl.reportService.UploadDownloadURL(c.Request.Context(), auth, c.Param("id"))
	if err != nil {
		respondError(c, err, "upload download url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Summary
// GET /api/v1/reports/summary?shop_id&month
func (ctrl *ReportController) Summary(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	summary, err := ctrl.reportService.Summary(c.Request.Context(), auth, c.Query("shop_id"), c.Query("month"))
	if err != nil {
		respondError(c, err, "report summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
