package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/internal/ingest"
	"github.com/ikkim/phonedesk-backend/internal/metrics"
	"github.com/ikkim/phonedesk-backend/internal/salary"
	"github.com/ikkim/phonedesk-backend/internal/storage"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"github.com/ikkim/phonedesk-backend/pkg/redis"
	"github.com/ikkim/phonedesk-backend/pkg/util"
	"golang.org/x/sync/errgroup"
)

// SheetFetcher downloads a shared spreadsheet as rows.
type SheetFetcher interface {
	Fetch(ctx context.Context, url string) (*ingest.Sheet, []byte, error)
}

type ReportInput struct {
	ShopID         string
	Name           string
	Phone          string
	SaleDate       string
	ProductName    string
	Amount         float64
	Margin         float64
	SalesPerson    string
	SupportAmount  float64
	Carrier        string
	ActivationType string
	PlanName       string
	InflowType     string
	SerialNumber   string
	Memo           string
}

type ReportPatch struct {
	Name           *string
	Phone          *string
	SaleDate       *string
	ProductName    *string
	Amount         *float64
	Margin         *float64
	SalesPerson    *string
	SupportAmount  *float64
	Carrier        *string
	ActivationType *string
	PlanName       *string
	InflowType     *string
	SerialNumber   *string
	Memo           *string
}

type ReportQuery struct {
	ShopID      string
	From        string
	To          string
	SalesPerson string
	Limit       int
	Offset      int
}

// ImportResult 일괄 등록 결과. Errors는 행 단위 오류 요약이다.
type ImportResult struct {
	UploadID string   `json:"upload_id,omitempty"`
	FileHash string   `json:"file_hash"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
	Unmapped []string `json:"unmapped_headers,omitempty"`
}

type MonthlySummary struct {
	ShopID            string                 `json:"shop_id"`
	Month             string                 `json:"month"`
	From              string                 `json:"from"`
	To                string                 `json:"to"`
	Settings          *model.ShopSettings    `json:"settings"`
	Stats             repository.ReportStats `json:"stats"`
	TargetProgressPct float64                `json:"target_progress_pct"`
	People            []salary.Line          `json:"people"`
}

type ReportService interface {
	Create(ctx context.Context, auth *authz.AuthContext, input ReportInput) (*model.ReportEntry, error)
	Get(ctx context.Context, auth *authz.AuthContext, id string) (*model.ReportEntry, error)
	List(ctx context.Context, auth *authz.AuthContext, query ReportQuery) ([]model.ReportEntry, int64, error)
	Update(ctx context.Context, auth *authz.AuthContext, id string, patch ReportPatch) (*model.ReportEntry, error)
	Delete(ctx context.Context, auth *authz.AuthContext, id string) error

	CheckDuplicate(ctx context.Context, auth *authz.AuthContext, shopID, fileHash string) error
	ImportFile(ctx context.Context, auth *authz.AuthContext, shopID, filename string, data []byte) (*ImportResult, error)
	ImportRows(ctx context.Context, auth *authz.AuthContext, shopID string, header []string, rows [][]any) (*ImportResult, error)
	ImportGoogleSheet(ctx context.Context, auth *authz.AuthContext, shopID, url string) (*ImportResult, error)
	ListUploads(ctx context.Context, auth *authz.AuthContext, shopID string) ([]model.ReportUpload, error)
	UploadDownloadURL(ctx context.Context, auth *authz.AuthContext, uploadID string) (string, error)

	Summary(ctx context.Context, auth *authz.AuthContext, shopID, month string) (*MonthlySummary, error)
}

type reportService struct {
	reports    repository.ReportRepository
	settings   repository.SettingsRepository
	authorizer *authz.Authorizer
	locker     redis.Locker
	archive    storage.LedgerArchive
	sheets     SheetFetcher
	now        func() time.Time
}

func NewReportService(
	reports repository.ReportRepository,
	settings repository.SettingsRepository,
	authorizer *authz.Authorizer,
	locker redis.Locker,
	archive storage.LedgerArchive,
	sheets SheetFetcher,
) ReportService {
	return &reportService{
		reports:    reports,
		settings:   settings,
		authorizer: authorizer,
		locker:     locker,
		archive:    archive,
		sheets:     sheets,
		now:        time.Now,
	}
}

func (s *reportService) Create(ctx context.Context, auth *authz.AuthContext, input ReportInput) (*model.ReportEntry, error) {
	shopID, err := s.authorizer.RequireShop(ctx, auth, input.ShopID)
	if err != nil {
		return nil, err
	}

	entry := &model.ReportEntry{
		ShopID:         shopID,
		Name:           strings.TrimSpace(input.Name),
		Phone:          strings.TrimSpace(input.Phone),
		SaleDate:       ingest.NormalizeDate(input.SaleDate),
		ProductName:    strings.TrimSpace(input.ProductName),
		Amount:         input.Amount,
		Margin:         input.Margin,
		SalesPerson:    strings.TrimSpace(input.SalesPerson),
		SupportAmount:  input.SupportAmount,
		Carrier:        strings.TrimSpace(input.Carrier),
		ActivationType: strings.TrimSpace(input.ActivationType),
		PlanName:       strings.TrimSpace(input.PlanName),
		InflowType:     strings.TrimSpace(input.InflowType),
		SerialNumber:   strings.TrimSpace(input.SerialNumber),
		Memo:           input.Memo,
	}
	if entry.Name == "" && entry.Phone == "" {
		return nil, invalid("name", "고객명 또는 연락처 중 하나는 입력해야 합니다")
	}
	if entry.SaleDate == "" {
		entry.SaleDate = s.now().Format(util.DateLayout)
	}

	if err := s.reports.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *reportService) owned(ctx context.Context, auth *authz.AuthContext, id string) (*model.ReportEntry, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	entry, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	d, err := s.authorizer.Authorize(ctx, auth, entry.ShopID)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, ErrReportNotFound
	}
	return entry, nil
}

func (s *reportService) Get(ctx context.Context, auth *authz.AuthContext, id string) (*model.ReportEntry, error) {
	return s.owned(ctx, auth, id)
}

func (s *reportService) List(ctx context.Context, auth *authz.AuthContext, query ReportQuery) ([]model.ReportEntry, int64, error) {
	shopID, err := s.authorizer.Require(ctx, auth, query.ShopID)
	if err != nil {
		return nil, 0, err
	}
	return s.reports.List(ctx, repository.ReportFilter{
		ShopID:      shopID,
		From:        query.From,
		To:          query.To,
		SalesPerson: strings.TrimSpace(query.SalesPerson),
		Limit:       query.Limit,
		Offset:      query.Offset,
	})
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func (s *reportService) Update(ctx context.Context, auth *authz.AuthContext, id string, patch ReportPatch) (*model.ReportEntry, error) {
	entry, err := s.owned(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	setTrimmed(&entry.Name, patch.Name)
	setTrimmed(&entry.Phone, patch.Phone)
	setTrimmed(&entry.ProductName, patch.ProductName)
	setTrimmed(&entry.SalesPerson, patch.SalesPerson)
	setTrimmed(&entry.Carrier, patch.Carrier)
	setTrimmed(&entry.ActivationType, patch.ActivationType)
	setTrimmed(&entry.PlanName, patch.PlanName)
	setTrimmed(&entry.InflowType, patch.InflowType)
	setTrimmed(&entry.SerialNumber, patch.SerialNumber)
	setFloat(&entry.Amount, patch.Amount)
	setFloat(&entry.Margin, patch.Margin)
	setFloat(&entry.SupportAmount, patch.SupportAmount)
	if patch.Memo != nil {
		entry.Memo = *patch.Memo
	}
	if patch.SaleDate != nil {
		entry.SaleDate = ingest.NormalizeDate(*patch.SaleDate)
	}
	if entry.Name == "" && entry.Phone == "" {
		return nil, invalid("name", "고객명 또는 연락처 중 하나는 입력해야 합니다")
	}

	if err := s.reports.Update(ctx, entry); err != nil {
		if isNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *reportService) Delete(ctx context.Context, auth *authz.AuthContext, id string) error {
	if _, err := s.owned(ctx, auth, id); err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

func (s *reportService) CheckDuplicate(ctx context.Context, auth *authz.AuthContext, shopID, fileHash string) error {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return err
	}
	fileHash = strings.ToLower(strings.TrimSpace(fileHash))
	if fileHash == "" {
		return invalid("file_hash", "파일 해시가 필요합니다")
	}
	return s.ensureNotUploaded(ctx, effective, fileHash)
}

func (s *reportService) ensureNotUploaded(ctx context.Context, shopID, fileHash string) error {
	_, err := s.reports.FindUploadByHash(ctx, shopID, fileHash)
	if err == nil {
		return ErrDuplicateUpload
	}
	if isNotFound(err) {
		return nil
	}
	return err
}

func (s *reportService) ImportFile(ctx context.Context, auth *authz.AuthContext, shopID, filename string, data []byte) (*ImportResult, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}

	sheet, err := ingest.ReadFile(filename, data)
	if err != nil {
		metrics.RecordImport(string(model.UploadSourceFile), metrics.ResultRejected, 0)
		if errors.Is(err, ingest.ErrUnsupportedFormat) || errors.Is(err, ingest.ErrEmptySheet) {
			return nil, invalid("file", err.Error())
		}
		logger.Warn("Failed to read uploaded ledger", map[string]interface{}{
			"shop_id":  effective,
			"filename": filename,
			"error":    err.Error(),
		})
		return nil, invalid("file", "파일을 읽을 수 없습니다. 엑셀(xlsx) 또는 CSV 파일인지 확인하세요")
	}

	return s.importSheet(ctx, auth, importRequest{
		shopID:   effective,
		source:   model.UploadSourceFile,
		name:     filename,
		hash:     ingest.HashContent(data),
		sheet:    sheet,
		original: data,
	})
}

func (s *reportService) ImportRows(ctx context.Context, auth *authz.AuthContext, shopID string, header []string, rows [][]any) (*ImportResult, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, invalid("headers", "헤더 행이 비어 있습니다")
	}

	payload, err := json.Marshal(struct {
		Headers []string `json:"headers"`
		Rows    [][]any  `json:"rows"`
	}{header, rows})
	if err != nil {
		return nil, invalid("rows", "행 데이터를 처리할 수 없습니다")
	}

	return s.importSheet(ctx, auth, importRequest{
		shopID: effective,
		source: model.UploadSourceRows,
		name:   "rows.json",
		hash:   ingest.HashContent(payload),
		sheet:  &ingest.Sheet{Header: header, Rows: rows},
	})
}

func (s *reportService) ImportGoogleSheet(ctx context.Context, auth *authz.AuthContext, shopID, url string) (*ImportResult, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}

	sheet, body, err := s.sheets.Fetch(ctx, url)
	if err != nil {
		metrics.RecordImport(string(model.UploadSourceSheets), metrics.ResultRejected, 0)
		switch {
		case errors.Is(err, ingest.ErrInvalidSheetURL), errors.Is(err, ingest.ErrSheetNotPublic),
			errors.Is(err, ingest.ErrSheetTooLarge), errors.Is(err, ingest.ErrEmptySheet):
			return nil, invalid("url", err.Error())
		}
		logger.Warn("Failed to fetch google sheet", map[string]interface{}{
			"shop_id": effective,
			"error":   err.Error(),
		})
		return nil, invalid("url", "구글 시트를 가져오지 못했습니다")
	}

	return s.importSheet(ctx, auth, importRequest{
		shopID:   effective,
		source:   model.UploadSourceSheets,
		name:     "google-sheet.csv",
		hash:     ingest.HashContent(body),
		sheet:    sheet,
		original: body,
	})
}

type importRequest struct {
	shopID   string
	source   model.UploadSource
	name     string
	hash     string
	sheet    *ingest.Sheet
	original []byte
}

// importSheet runs one ledger import: duplicate gate, mapping, insert, archive.
func (s *reportService) importSheet(ctx context.Context, auth *authz.AuthContext, req importRequest) (*ImportResult, error) {
	source := string(req.source)
	result := &ImportResult{FileHash: req.hash, Errors: []string{}}

	unlock, acquired, err := s.locker.TryLock(ctx, "ledger-import:"+req.shopID+":"+req.hash)
	if err != nil {
		logger.Warn("Import lock unavailable, relying on unique upload hash", map[string]interface{}{
			"shop_id": req.shopID,
			"error":   err.Error(),
		})
	} else if !acquired {
		return nil, ErrImportInProgress
	} else {
		defer unlock()
	}

	if err := s.ensureNotUploaded(ctx, req.shopID, req.hash); err != nil {
		if errors.Is(err, ErrDuplicateUpload) {
			metrics.RecordImport(source, metrics.ResultDuplicate, 0)
		}
		return nil, err
	}

	mapped := ingest.MapRows(req.sheet.Header, req.sheet.Rows, req.shopID)
	result.Errors = append(result.Errors, mapped.Errors...)
	result.Unmapped = mapped.Unmapped
	result.Skipped = len(req.sheet.Rows) - len(mapped.Entries)
	if len(mapped.Entries) == 0 {
		metrics.RecordImport(source, metrics.ResultRejected, 0)
		logger.Warn("Ledger import has no mapped rows", map[string]interface{}{
			"shop_id": req.shopID,
			"source":  source,
			"mapping": mapped.Summary(),
		})
		return result, ErrNoMappedRows
	}

	upload := &model.ReportUpload{
		ShopID:     req.shopID,
		FileHash:   req.hash,
		FileName:   req.name,
		Source:     req.source,
		UploadedBy: auth.ID,
	}
	if err := s.reports.Import(ctx, upload, mapped.Entries); err != nil {
		if isDuplicateKey(err) {
			metrics.RecordImport(source, metrics.ResultDuplicate, 0)
			return nil, ErrDuplicateUpload
		}
		metrics.RecordImport(source, metrics.ResultError, 0)
		return nil, err
	}
	result.UploadID = upload.ID
	result.Inserted = len(mapped.Entries)
	metrics.RecordImport(source, metrics.ResultSuccess, result.Inserted)

	s.archiveOriginal(ctx, upload, req.original)

	logger.Info("Ledger imported", map[string]interface{}{
		"shop_id":   req.shopID,
		"source":    source,
		"upload_id": upload.ID,
		"inserted":  result.Inserted,
		"skipped":   result.Skipped,
		"mapping":   mapped.Summary(),
	})
	return result, nil
}

// archiveOriginal stores the uploaded bytes. Failures never undo the import.
func (s *reportService) archiveOriginal(ctx context.Context, upload *model.ReportUpload, data []byte) {
	if s.archive == nil || !s.archive.Enabled() || len(data) == 0 {
		return
	}
	key, err := s.archive.Put(ctx, upload.ShopID, upload.FileHash, upload.FileName, data)
	if err != nil {
		logger.Warn("Failed to archive ledger file", map[string]interface{}{
			"upload_id": upload.ID,
			"error":     err.Error(),
		})
		return
	}
	if err := s.reports.UpdateUploadArchiveKey(ctx, upload.ID, key); err != nil {
		logger.Warn("Failed to record archive key", map[string]interface{}{
			"upload_id": upload.ID,
			"error":     err.Error(),
		})
		return
	}
	upload.ArchiveKey = key
}

func (s *reportService) ListUploads(ctx context.Context, auth *authz.AuthContext, shopID string) ([]model.ReportUpload, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	return s.reports.ListUploads(ctx, effective, 100)
}

func (s *reportService) UploadDownloadURL(ctx context.Context, auth *authz.AuthContext, uploadID string) (string, error) {
	if auth == nil {
		return "", ErrUnauthenticated
	}
	upload, err := s.reports.FindUploadByID(ctx, uploadID)
	if err != nil {
		if isNotFound(err) {
			return "", ErrUploadNotFound
		}
		return "", err
	}
	d, err := s.authorizer.Authorize(ctx, auth, upload.ShopID)
	if err != nil {
		return "", err
	}
	if !d.Allowed {
		return "", ErrUploadNotFound
	}
	if upload.ArchiveKey == "" || s.archive == nil || !s.archive.Enabled() {
		return "", ErrArchiveDisabled
	}
	return s.archive.DownloadURL(ctx, upload.ArchiveKey)
}

// Summary loads settings and ledger rows concurrently.
func (s *reportService) Summary(ctx context.Context, auth *authz.AuthContext, shopID, month string) (*MonthlySummary, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	if month == "" {
		month = util.CurrentMonth(s.now())
	}
	from, to, err := monthBounds(month, s.now())
	if err != nil {
		return nil, err
	}

	var settings *model.ShopSettings
	var entries []model.ReportEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = loadSettings(gctx, s.settings, effective)
		return err
	})
	g.Go(func() error {
		var err error
		entries, _, err = s.reports.List(gctx, repository.ReportFilter{ShopID: effective, From: from, To: to})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		ShopID:   effective,
		Month:    month,
		From:     from,
		To:       to,
		Settings: settings,
		People:   salary.Table(entries, settings.PerSaleIncentive, settings.MarginFraction()),
	}
	for _, e := range entries {
		summary.Stats.Count++
		summary.Stats.TotalAmount += e.Amount
		summary.Stats.TotalMargin += e.Margin
		summary.Stats.TotalSupport += e.SupportAmount
	}
	if settings.SalesTargetMonthly > 0 {
		summary.TargetProgressPct = float64(summary.Stats.Count) / float64(settings.SalesTargetMonthly) * 100
	}
	return summary, nil
}

// loadSettings returns the shop's row or the defaults when none is stored.
func loadSettings(ctx context.Context, repo repository.SettingsRepository, shopID string) (*model.ShopSettings, error) {
	settings, err := repo.Find(ctx, shopID)
	if err != nil {
		if isNotFound(err) {
			return model.DefaultShopSettings(shopID), nil
		}
		return nil, err
	}
	return settings, nil
}
