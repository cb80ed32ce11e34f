package repository

import (
	"context"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
)

// SalaryRepository append-only; snapshots are never updated or deleted.
type SalaryRepository interface {
	CreateSnapshots(ctx context.Context, snapshots []model.SalarySnapshot) error
	ListByShop(ctx context.Context, shopID string, limit int) ([]model.SalarySnapshot, error)
}

type salaryRepository struct {
	db *gorm.DB
}

func NewSalaryRepository(db *gorm.DB) SalaryRepository {
	return &salaryRepository{db: db}
}

func (r *salaryRepository) CreateSnapshots(ctx context.Context, snapshots []model.SalarySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&snapshots).Error; err != nil {
		logger.Error("Failed to save salary snapshots", err, map[string]interface{}{
			"shop_id": snapshots[0].ShopID,
			"count":   len(snapshots),
		})
		return err
	}
	return nil
}

func (r *salaryRepository) ListByShop(ctx context.Context, shopID string, limit int) ([]model.SalarySnapshot, error) {
	query := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("created_at DESC, sales_person ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var snapshots []model.SalarySnapshot
	if err := query.Find(&snapshots).Error; err != nil {
		logger.Error("Failed to list salary snapshots", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}
	return snapshots, nil
}
