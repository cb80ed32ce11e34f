package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalarySnapshot 저장된 급여 계산 결과. 추가만 가능하다.
type SalarySnapshot struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ShopID           string    `gorm:"type:varchar(36);not null;index" json:"shop_id"`
	SalesPerson      string    `gorm:"not null" json:"sales_person"`
	PeriodStart      string    `gorm:"type:varchar(10);not null" json:"period_start"`
	PeriodEnd        string    `gorm:"type:varchar(10);not null" json:"period_end"`
	SaleCount        int       `json:"sale_count"`
	TotalMargin      float64   `json:"total_margin"`
	TotalSupport     float64   `json:"total_support"`
	CalculatedSalary int64     `json:"calculated_salary"`
	CreatedBy        string    `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

func (SalarySnapshot) TableName() string {
	return "salary_snapshots"
}

func (s *SalarySnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
