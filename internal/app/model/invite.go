package model

import "time"

const InviteTTL = 7 * 24 * time.Hour

// Invite 직원 가입용 초대 코드. 가입 성공 시 삭제된다.
type Invite struct {
	Code      string    `gorm:"type:varchar(16);primaryKey" json:"code"`
	ShopID    string    `gorm:"type:varchar(36);not null;index" json:"shop_id"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	CreatedBy string    `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

func (Invite) TableName() string {
	return "invites"
}

func (i *Invite) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
