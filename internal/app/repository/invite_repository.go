package repository

import (
	"context"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
)

type InviteRepository interface {
	Create(ctx context.Context, invite *model.Invite) error
	FindByCode(ctx context.Context, code string) (*model.Invite, error)
	ListActiveByShop(ctx context.Context, shopID string, now time.Time) ([]model.Invite, error)
	Delete(ctx context.Context, code string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		logger.Error("Failed to create invite", err, map[string]interface{}{
			"shop_id": invite.ShopID,
		})
		return err
	}
	return nil
}

func (r *inviteRepository) FindByCode(ctx context.Context, code string) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) ListActiveByShop(ctx context.Context, shopID string, now time.Time) ([]model.Invite, error) {
	var invites []model.Invite
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND expires_at > ?", shopID, now).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		logger.Error("Failed to list invites", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}
	return invites, nil
}

func (r *inviteRepository) Delete(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.Invite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inviteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Invite{})
	if result.Error != nil {
		logger.Error("Failed to delete expired invites", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
