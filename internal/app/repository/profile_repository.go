package repository

import (
	"context"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindByLoginID(ctx context.Context, loginID string) (*model.Profile, error)
	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)
	ListByShop(ctx context.Context, shopID string) ([]model.Profile, error)
	ListIDsByShop(ctx context.Context, shopID string) ([]string, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	logger.Debug("Creating profile in database", map[string]interface{}{
		"login_id": profile.LoginID,
		"role":     profile.Role,
	})

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		logger.Error("Failed to create profile in database", err, map[string]interface{}{
			"login_id": profile.LoginID,
		})
		return err
	}

	logger.Debug("Profile created in database", map[string]interface{}{
		"profile_id": profile.ID,
		"login_id":   profile.LoginID,
	})
	return nil
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		logger.Debug("Profile not found by ID", map[string]interface{}{
			"profile_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByLoginID(ctx context.Context, loginID string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("login_id = ?", loginID).First(&profile).Error; err != nil {
		logger.Debug("Profile not found by login ID", map[string]interface{}{
			"login_id": loginID,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Where("login_id = ?", loginID).Count(&count).Error
	if err != nil {
		logger.Error("Failed to check login ID", err, map[string]interface{}{
			"login_id": loginID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *profileRepository) ListByShop(ctx context.Context, shopID string) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("role ASC, name ASC").
		Find(&profiles).Error
	if err != nil {
		logger.Error("Failed to list shop members", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) ListIDsByShop(ctx context.Context, shopID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Where("shop_id = ?", shopID).Pluck("id", &ids).Error
	if err != nil {
		logger.Error("Failed to list shop member IDs", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}
	return ids, nil
}
