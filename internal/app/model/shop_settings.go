package model

import "time"

const DefaultPerSaleIncentive int64 = 30000

// ShopSettings 매장별 정산 설정 (매장당 1행, upsert)
type ShopSettings struct {
	ShopID             string    `gorm:"type:varchar(36);primaryKey" json:"shop_id"`
	MarginRatePct      float64   `gorm:"not null;default:0" json:"margin_rate_pct"`
	SalesTargetMonthly int64     `gorm:"not null;default:0" json:"sales_target_monthly"`
	PerSaleIncentive   int64     `gorm:"not null" json:"per_sale_incentive"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (ShopSettings) TableName() string {
	return "shop_settings"
}

// DefaultShopSettings returns the values used when a shop has no settings row.
func DefaultShopSettings(shopID string) *ShopSettings {
	return &ShopSettings{
		ShopID:             shopID,
		MarginRatePct:      0,
		SalesTargetMonthly: 0,
		PerSaleIncentive:   DefaultPerSaleIncentive,
	}
}

// MarginFraction converts the percent setting into the multiplier used by salary calculation.
func (s *ShopSettings) MarginFraction() float64 {
	return s.MarginRatePct / 100
}
