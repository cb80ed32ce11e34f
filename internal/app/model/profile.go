package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string // 사용자 권한 타입

const (
	RoleSuperAdmin    Role = "super_admin"    // 본사 관리자 (전체 매장)
	RoleRegionManager Role = "region_manager" // 지역 관리자 (매장 그룹)
	RoleTenantAdmin   Role = "tenant_admin"   // 매장 대표
	RoleStaff         Role = "staff"          // 매장 직원
)

var ErrProfileScopeMismatch = errors.New("profile scope does not match role")

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleRegionManager, RoleTenantAdmin, RoleStaff:
		return true
	}
	return false
}

// ShopScoped reports whether the role is bound to exactly one shop.
func (r Role) ShopScoped() bool {
	return r == RoleTenantAdmin || r == RoleStaff
}

type Profile struct {
	ID                  string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name                string    `gorm:"not null" json:"name"`
	LoginID             string    `gorm:"uniqueIndex;not null" json:"login_id"`
	PasswordHash        string    `gorm:"not null" json:"-"`
	Role                Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	ShopID              *string   `gorm:"type:varchar(36);index" json:"shop_id,omitempty"`                // tenant_admin, staff
	ManagedStoreGroupID *string   `gorm:"type:varchar(36);index" json:"managed_store_group_id,omitempty"` // region_manager
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ValidateScope enforces that at most one scoping id is set and that it matches the role.
func (p *Profile) ValidateScope() error {
	hasShop := p.ShopID != nil && *p.ShopID != ""
	hasGroup := p.ManagedStoreGroupID != nil && *p.ManagedStoreGroupID != ""

	switch p.Role {
	case RoleSuperAdmin:
		if hasShop || hasGroup {
			return ErrProfileScopeMismatch
		}
	case RoleRegionManager:
		if !hasGroup || hasShop {
			return ErrProfileScopeMismatch
		}
	case RoleTenantAdmin, RoleStaff:
		if !hasShop || hasGroup {
			return ErrProfileScopeMismatch
		}
	default:
		return ErrProfileScopeMismatch
	}
	return nil
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p.ValidateScope()
}
