package repository

import (
	"context"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
)

// ShopFilter narrows List. Zero value lists every shop.
type ShopFilter struct {
	StoreGroupID string
	IDs          []string
}

type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	FindByID(ctx context.Context, id string) (*model.Shop, error)
	List(ctx context.Context, filter ShopFilter) ([]model.Shop, error)
	UpdateStoreGroup(ctx context.Context, shopID string, storeGroupID *string) error
	ShopBelongsToStoreGroup(ctx context.Context, shopID, storeGroupID string) (bool, error)

	CreateStoreGroup(ctx context.Context, group *model.StoreGroup) error
	FindStoreGroupByID(ctx context.Context, id string) (*model.StoreGroup, error)
	ListStoreGroups(ctx context.Context) ([]model.StoreGroup, error)
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(ctx context.Context, shop *model.Shop) error {
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		logger.Error("Failed to create shop in database", err, map[string]interface{}{
			"name": shop.Name,
		})
		return err
	}

	logger.Debug("Shop created in database", map[string]interface{}{
		"shop_id": shop.ID,
		"name":    shop.Name,
	})
	return nil
}

func (r *shopRepository) FindByID(ctx context.Context, id string) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) List(ctx context.Context, filter ShopFilter) ([]model.Shop, error) {
	query := r.db.WithContext(ctx).Model(&model.Shop{})
	if filter.StoreGroupID != "" {
		query = query.Where("store_group_id = ?", filter.StoreGroupID)
	}
	if filter.IDs != nil {
		query = query.Where("id IN ?", filter.IDs)
	}

	var shops []model.Shop
	if err := query.Order("name ASC").Find(&shops).Error; err != nil {
		logger.Error("Failed to list shops", err, map[string]interface{}{
			"store_group_id": filter.StoreGroupID,
		})
		return nil, err
	}
	return shops, nil
}

func (r *shopRepository) UpdateStoreGroup(ctx context.Context, shopID string, storeGroupID *string) error {
	result := r.db.WithContext(ctx).Model(&model.Shop{}).
		Where("id = ?", shopID).
		Update("store_group_id", storeGroupID)
	if result.Error != nil {
		logger.Error("Failed to update shop store group", result.Error, map[string]interface{}{
			"shop_id": shopID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ShopBelongsToStoreGroup is read from the store on every call.
func (r *shopRepository) ShopBelongsToStoreGroup(ctx context.Context, shopID, storeGroupID string) (bool, error) {
	if shopID == "" || storeGroupID == "" {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Shop{}).
		Where("id = ? AND store_group_id = ?", shopID, storeGroupID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check store group membership", err, map[string]interface{}{
			"shop_id":        shopID,
			"store_group_id": storeGroupID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *shopRepository) CreateStoreGroup(ctx context.Context, group *model.StoreGroup) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		logger.Error("Failed to create store group", err, map[string]interface{}{
			"name": group.Name,
		})
		return err
	}
	return nil
}

func (r *shopRepository) FindStoreGroupByID(ctx context.Context, id string) (*model.StoreGroup, error) {
	var group model.StoreGroup
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *shopRepository) ListStoreGroups(ctx context.Context) ([]model.StoreGroup, error) {
	var groups []model.StoreGroup
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&groups).Error; err != nil {
		logger.Error("Failed to list store groups", err)
		return nil, err
	}
	return groups, nil
}
