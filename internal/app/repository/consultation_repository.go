package repository

import (
	"context"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
)

// ConsultationFilter ShopID가 비어 있으면 전체 매장 (super_admin 전용)
type ConsultationFilter struct {
	ShopID string
	From   string // consultation_date >= From
	To     string // consultation_date <= To
	Status model.ActivationStatus
	Query  string // 이름/연락처 부분 일치
	Limit  int
	Offset int
}

type ConsultationStats struct {
	Total   int64 `json:"total"`
	Done    int64 `json:"done"`
	Pending int64 `json:"pending"`
	NotYet  int64 `json:"not_yet"`
	Moved   int64 `json:"moved"`
}

// editableConsultationColumns excludes report_id, which only MarkMoved writes.
var editableConsultationColumns = []string{
	"name", "phone", "product_name", "memo", "consultation_date",
	"sales_person", "activation_status", "inflow_type",
}

type ConsultationRepository interface {
	Create(ctx context.Context, c *model.Consultation) error
	FindByID(ctx context.Context, id string) (*model.Consultation, error)
	List(ctx context.Context, filter ConsultationFilter) ([]model.Consultation, int64, error)
	Update(ctx context.Context, c *model.Consultation) error
	Delete(ctx context.Context, id string) error
	MarkMoved(ctx context.Context, id, reportID string) (bool, error)
	Stats(ctx context.Context, shopID, from, to string) (*ConsultationStats, error)
}

type consultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) ConsultationRepository {
	return &consultationRepository{db: db}
}

func (r *consultationRepository) Create(ctx context.Context, c *model.Consultation) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		logger.Error("Failed to create consultation in database", err, map[string]interface{}{
			"shop_id": c.ShopID,
		})
		return err
	}

	logger.Debug("Consultation created in database", map[string]interface{}{
		"consultation_id": c.ID,
		"shop_id":         c.ShopID,
	})
	return nil
}

func (r *consultationRepository) FindByID(ctx context.Context, id string) (*model.Consultation, error) {
	var c model.Consultation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *consultationRepository) scoped(ctx context.Context, shopID, from, to string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Consultation{})
	if shopID != "" {
		query = query.Where("shop_id = ?", shopID)
	}
	if from != "" {
		query = query.Where("consultation_date >= ?", from)
	}
	if to != "" {
		query = query.Where("consultation_date <= ?", to)
	}
	return query
}

func (r *consultationRepository) List(ctx context.Context, filter ConsultationFilter) ([]model.Consultation, int64, error) {
	query := r.scoped(ctx, filter.ShopID, filter.From, filter.To)
	if filter.Status != "" {
		query = query.Where("activation_status = ?", filter.Status)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("(name LIKE ? OR phone LIKE ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count consultations", err, map[string]interface{}{
			"shop_id": filter.ShopID,
		})
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var items []model.Consultation
	if err := query.Order("consultation_date DESC, created_at DESC").Find(&items).Error; err != nil {
		logger.Error("Failed to list consultations", err, map[string]interface{}{
			"shop_id": filter.ShopID,
		})
		return nil, 0, err
	}

	logger.Debug("Consultations listed", map[string]interface{}{
		"shop_id": filter.ShopID,
		"count":   len(items),
		"total":   total,
	})
	return items, total, nil
}

func (r *consultationRepository) Update(ctx context.Context, c *model.Consultation) error {
	result := r.db.WithContext(ctx).Model(c).Select(editableConsultationColumns).Updates(c)
	if result.Error != nil {
		logger.Error("Failed to update consultation", result.Error, map[string]interface{}{
			"consultation_id": c.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *consultationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Consultation{})
	if result.Error != nil {
		logger.Error("Failed to delete consultation", result.Error, map[string]interface{}{
			"consultation_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkMoved sets report_id only while it is still NULL. false means another move won.
func (r *consultationRepository) MarkMoved(ctx context.Context, id, reportID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Consultation{}).
		Where("id = ? AND report_id IS NULL", id).
		Update("report_id", reportID)
	if result.Error != nil {
		logger.Error("Failed to mark consultation as moved", result.Error, map[string]interface{}{
			"consultation_id": id,
			"report_id":       reportID,
		})
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *consultationRepository) Stats(ctx context.Context, shopID, from, to string) (*ConsultationStats, error) {
	var rows []struct {
		ActivationStatus model.ActivationStatus
		Count            int64
	}
	err := r.scoped(ctx, shopID, from, to).
		Select("activation_status, COUNT(*) AS count").
		Group("activation_status").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate consultation stats", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}

	stats := &ConsultationStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.ActivationStatus {
		case model.ActivationDone:
			stats.Done = row.Count
		case model.ActivationPending:
			stats.Pending = row.Count
		case model.ActivationNotYet:
			stats.NotYet = row.Count
		}
	}

	if err := r.scoped(ctx, shopID, from, to).Where("report_id IS NOT NULL").Count(&stats.Moved).Error; err != nil {
		logger.Error("Failed to count moved consultations", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}
	return stats, nil
}
