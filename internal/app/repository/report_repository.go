package repository

import (
	"context"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReportBatchSize rows per INSERT during bulk import.
const ReportBatchSize = 500

type ReportFilter struct {
	ShopID      string
	From        string // sale_date >= From
	To          string // sale_date <= To
	SalesPerson string
	Limit       int
	Offset      int
}

type ReportStats struct {
	Count        int64   `json:"count"`
	TotalAmount  float64 `json:"total_amount"`
	TotalMargin  float64 `json:"total_margin"`
	TotalSupport float64 `json:"total_support"`
}

var editableReportColumns = []string{
	"name", "phone", "sale_date", "product_name", "amount", "margin", "sales_person", "support_amount",
	"carrier", "activation_type", "plan_name", "inflow_type", "serial_number", "memo",
	"face_amount", "verbal_a", "verbal_b", "verbal_c", "verbal_d", "verbal_e", "verbal_f",
}

type ReportRepository interface {
	Create(ctx context.Context, entry *model.ReportEntry) error
	FindByID(ctx context.Context, id string) (*model.ReportEntry, error)
	List(ctx context.Context, filter ReportFilter) ([]model.ReportEntry, int64, error)
	Update(ctx context.Context, entry *model.ReportEntry) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, shopID, from, to string) (*ReportStats, error)

	// Import records the upload and inserts its entries in one transaction.
	Import(ctx context.Context, upload *model.ReportUpload, entries []model.ReportEntry) error
	FindUploadByHash(ctx context.Context, shopID, fileHash string) (*model.ReportUpload, error)
	FindUploadByID(ctx context.Context, id string) (*model.ReportUpload, error)
	ListUploads(ctx context.Context, shopID string, limit int) ([]model.ReportUpload, error)
	UpdateUploadArchiveKey(ctx context.Context, uploadID, key string) error

	// FindOrphans returns move-to-report rows older than before whose source consultation
	// does not point back at them.
	FindOrphans(ctx context.Context, before time.Time) ([]model.ReportEntry, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, entry *model.ReportEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Error("Failed to create report entry in database", err, map[string]interface{}{
			"shop_id": entry.ShopID,
		})
		return err
	}

	logger.Debug("Report entry created in database", map[string]interface{}{
		"report_id": entry.ID,
		"shop_id":   entry.ShopID,
	})
	return nil
}

func (r *reportRepository) FindByID(ctx context.Context, id string) (*model.ReportEntry, error) {
	var entry model.ReportEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *reportRepository) scoped(ctx context.Context, shopID, from, to string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.ReportEntry{})
	if shopID != "" {
		query = query.Where("shop_id = ?", shopID)
	}
	if from != "" {
		query = query.Where("sale_date >= ?", from)
	}
	if to != "" {
		// sale_date may carry a time suffix; compare against the end of the day
		query = query.Where("sale_date <= ?", to+"~")
	}
	return query
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]model.ReportEntry, int64, error) {
	query := r.scoped(ctx, filter.ShopID, filter.From, filter.To)
	if filter.SalesPerson != "" {
		query = query.Where("sales_person = ?", filter.SalesPerson)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count report entries", err, map[string]interface{}{
			"shop_id": filter.ShopID,
		})
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var entries []model.ReportEntry
	if err := query.Order("sale_date DESC, created_at DESC").Find(&entries).Error; err != nil {
		logger.Error("Failed to list report entries", err, map[string]interface{}{
			"shop_id": filter.ShopID,
		})
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *reportRepository) Update(ctx context.Context, entry *model.ReportEntry) error {
	result := r.db.WithContext(ctx).Model(entry).Select(editableReportColumns).Updates(entry)
	if result.Error != nil {
		logger.Error("Failed to update report entry", result.Error, map[string]interface{}{
			"report_id": entry.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ReportEntry{})
	if result.Error != nil {
		logger.Error("Failed to delete report entry", result.Error, map[string]interface{}{
			"report_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reportRepository) Stats(ctx context.Context, shopID, from, to string) (*ReportStats, error) {
	var stats ReportStats
	err := r.scoped(ctx, shopID, from, to).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount, " +
			"COALESCE(SUM(margin), 0) AS total_margin, COALESCE(SUM(support_amount), 0) AS total_support").
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to aggregate report stats", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) Import(ctx context.Context, upload *model.ReportUpload, entries []model.ReportEntry) error {
	logger.Debug("Importing report entries", map[string]interface{}{
		"shop_id":   upload.ShopID,
		"file_hash": upload.FileHash,
		"rows":      len(entries),
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upload.RowCount = len(entries)
		if err := tx.Create(upload).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].UploadID = &upload.ID
		}
		return tx.CreateInBatches(entries, ReportBatchSize).Error
	})
	if err != nil {
		logger.Error("Failed to import report entries", err, map[string]interface{}{
			"shop_id":   upload.ShopID,
			"file_hash": upload.FileHash,
		})
		return err
	}

	logger.Info("Report entries imported", map[string]interface{}{
		"upload_id": upload.ID,
		"shop_id":   upload.ShopID,
		"rows":      len(entries),
	})
	return nil
}

func (r *reportRepository) FindUploadByHash(ctx context.Context, shopID, fileHash string) (*model.ReportUpload, error) {
	var upload model.ReportUpload
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND file_hash = ?", shopID, fileHash).
		First(&upload).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *reportRepository) FindUploadByID(ctx context.Context, id string) (*model.ReportUpload, error) {
	var upload model.ReportUpload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *reportRepository) ListUploads(ctx context.Context, shopID string, limit int) ([]model.ReportUpload, error) {
	query := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var uploads []model.ReportUpload
	if err := query.Find(&uploads).Error; err != nil {
		logger.Error("Failed to list report uploads", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}
	return uploads, nil
}

func (r *reportRepository) UpdateUploadArchiveKey(ctx context.Context, uploadID, key string) error {
	return r.db.WithContext(ctx).Model(&model.ReportUpload{}).
		Where("id = ?", uploadID).
		Update("archive_key", key).Error
}

func (r *reportRepository) FindOrphans(ctx context.Context, before time.Time) ([]model.ReportEntry, error) {
	var entries []model.ReportEntry
	err := r.db.WithContext(ctx).
		Table("report_entries AS r").
		Select("r.*").
		Joins("JOIN consultations AS c ON c.id = r.source_consultation_id").
		Where("r.source_consultation_id IS NOT NULL").
		Where("r.created_at < ?", before).
		Where("(c.report_id IS NULL OR c.report_id <> r.id)").
		Find(&entries).Error
	if err != nil {
		logger.Error("Failed to find orphan report entries", err)
		return nil, err
	}
	return entries, nil
}
