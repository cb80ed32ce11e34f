package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
)

// Shop 매장. 테넌트 격리 단위이며 서비스 내에서 삭제되지 않는다.
type Shop struct {
	ID                 string             `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name               string             `gorm:"not null" json:"name"`
	StoreGroupID       *string            `gorm:"type:varchar(36);index" json:"store_group_id,omitempty"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);default:'trial'" json:"subscription_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func (Shop) TableName() string {
	return "shops"
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SubscriptionStatus == "" {
		s.SubscriptionStatus = SubscriptionTrial
	}
	return nil
}

// StoreGroup 지역 관리자가 관리하는 매장 묶음
type StoreGroup struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (StoreGroup) TableName() string {
	return "store_groups"
}

func (g *StoreGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
