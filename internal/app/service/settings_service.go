package service

import (
	"context"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
)

// SettingsPatch nil fields keep the stored (or default) value.
type SettingsPatch struct {
	ShopID             string
	MarginRatePct      *float64
	SalesTargetMonthly *int64
	PerSaleIncentive   *int64
}

type SettingsService interface {
	Get(ctx context.Context, auth *authz.AuthContext, shopID string) (*model.ShopSettings, error)
	Update(ctx context.Context, auth *authz.AuthContext, patch SettingsPatch) (*model.ShopSettings, error)
}

type settingsService struct {
	settings   repository.SettingsRepository
	authorizer *authz.Authorizer
}

func NewSettingsService(settings repository.SettingsRepository, authorizer *authz.Authorizer) SettingsService {
	return &settingsService{
		settings:   settings,
		authorizer: authorizer,
	}
}

func (s *settingsService) Get(ctx context.Context, auth *authz.AuthContext, shopID string) (*model.ShopSettings, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	return loadSettings(ctx, s.settings, effective)
}

func (s *settingsService) Update(ctx context.Context, auth *authz.AuthContext, patch SettingsPatch) (*model.ShopSettings, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, patch.ShopID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageShop(auth.Role) {
		return nil, ErrForbidden
	}

	current, err := loadSettings(ctx, s.settings, effective)
	if err != nil {
		return nil, err
	}

	if patch.MarginRatePct != nil {
		if *patch.MarginRatePct < 0 || *patch.MarginRatePct > 100 {
			return nil, invalid("margin_rate_pct", "마진율은 0에서 100 사이여야 합니다")
		}
		current.MarginRatePct = *patch.MarginRatePct
	}
	if patch.SalesTargetMonthly != nil {
		if *patch.SalesTargetMonthly < 0 {
			return nil, invalid("sales_target_monthly", "월 판매 목표는 0 이상이어야 합니다")
		}
		current.SalesTargetMonthly = *patch.SalesTargetMonthly
	}
	if patch.PerSaleIncentive != nil {
		if *patch.PerSaleIncentive < 0 {
			return nil, invalid("per_sale_incentive", "건당 인센티브는 0 이상이어야 합니다")
		}
		current.PerSaleIncentive = *patch.PerSaleIncentive
	}

	if err := s.settings.Upsert(ctx, current); err != nil {
		return nil, err
	}

	logger.Info("Shop settings updated", map[string]interface{}{
		"shop_id":            effective,
		"updated_by":         auth.ID,
		"margin_rate_pct":    current.MarginRatePct,
		"per_sale_incentive": current.PerSaleIncentive,
	})
	return current, nil
}
