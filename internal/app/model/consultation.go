package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivationStatus string // 개통 상태

const (
	ActivationDone    ActivationStatus = "O" // 개통 완료
	ActivationPending ActivationStatus = "△" // 보류/예정
	ActivationNotYet  ActivationStatus = "X" // 미개통
)

func (s ActivationStatus) Valid() bool {
	switch s {
	case ActivationDone, ActivationPending, ActivationNotYet:
		return true
	}
	return false
}

// Consultation 상담(CRM) 내역
type Consultation struct {
	ID               string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	ShopID           string           `gorm:"type:varchar(36);not null;index" json:"shop_id"`
	Name             string           `gorm:"not null" json:"name"`
	Phone            string           `json:"phone"`
	ProductName      string           `json:"product_name"`
	Memo             string           `gorm:"type:text" json:"memo"`
	ConsultationDate string           `gorm:"type:varchar(10);index" json:"consultation_date"` // YYYY-MM-DD
	SalesPerson      string           `json:"sales_person"`
	ActivationStatus ActivationStatus `gorm:"type:varchar(4);default:'X';not null" json:"activation_status"`
	InflowType       string           `json:"inflow_type"`
	ReportID         *string          `gorm:"type:varchar(36);index" json:"report_id,omitempty"` // 판매일보 이동 시 설정
	CreatedBy        string           `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (Consultation) TableName() string {
	return "consultations"
}

func (c *Consultation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ActivationStatus == "" {
		c.ActivationStatus = ActivationNotYet
	}
	return nil
}

// Moved reports whether the consultation has already been promoted to a report entry.
func (c *Consultation) Moved() bool {
	return c.ReportID != nil && *c.ReportID != ""
}
