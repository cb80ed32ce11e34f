package repository

import (
	"context"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	Find(ctx context.Context, shopID string) (*model.ShopSettings, error)
	Upsert(ctx context.Context, settings *model.ShopSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Find(ctx context.Context, shopID string) (*model.ShopSettings, error) {
	var settings model.ShopSettings
	if err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert inserts or replaces the row keyed by shop_id.
func (r *settingsRepository) Upsert(ctx context.Context, settings *model.ShopSettings) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shop_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"margin_rate_pct", "sales_target_monthly", "per_sale_incentive", "updated_at",
		}),
	}).Create(settings).Error
	if err != nil {
		logger.Error("Failed to upsert shop settings", err, map[string]interface{}{
			"shop_id": settings.ShopID,
		})
		return err
	}

	logger.Debug("Shop settings upserted", map[string]interface{}{
		"shop_id":            settings.ShopID,
		"margin_rate_pct":    settings.MarginRatePct,
		"per_sale_incentive": settings.PerSaleIncentive,
	})
	return nil
}
