package service

import (
	"context"
	"strings"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
)

type ShopService interface {
	List(ctx context.Context, auth *authz.AuthContext) ([]model.Shop, error)
	Get(ctx context.Context, auth *authz.AuthContext, shopID string) (*model.Shop, error)
	Create(ctx context.Context, auth *authz.AuthContext, name string, storeGroupID *string) (*model.Shop, error)
	AssignStoreGroup(ctx context.Context, auth *authz.AuthContext, shopID string, storeGroupID *string) (*model.Shop, error)
	Members(ctx context.Context, auth *authz.AuthContext, shopID string) ([]model.Profile, error)

	CreateStoreGroup(ctx context.Context, auth *authz.AuthContext, name string) (*model.StoreGroup, error)
	ListStoreGroups(ctx context.Context, auth *authz.AuthContext) ([]model.StoreGroup, error)
}

type shopService struct {
	shops      repository.ShopRepository
	profiles   repository.ProfileRepository
	authorizer *authz.Authorizer
}

func NewShopService(
	shops repository.ShopRepository,
	profiles repository.ProfileRepository,
	authorizer *authz.Authorizer,
) ShopService {
	return &shopService{
		shops:      shops,
		profiles:   profiles,
		authorizer: authorizer,
	}
}

// List returns the shops visible to the caller.
func (s *shopService) List(ctx context.Context, auth *authz.AuthContext) ([]model.Shop, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}

	switch auth.Role {
	case model.RoleSuperAdmin:
		return s.shops.List(ctx, repository.ShopFilter{})
	case model.RoleRegionManager:
		if auth.StoreGroupID == "" {
			return nil, ErrForbidden
		}
		return s.shops.List(ctx, repository.ShopFilter{StoreGroupID: auth.StoreGroupID})
	case model.RoleTenantAdmin, model.RoleStaff:
		if auth.ShopID == "" {
			return nil, ErrForbidden
		}
		return s.shops.List(ctx, repository.ShopFilter{IDs: []string{auth.ShopID}})
	}
	return nil, ErrForbidden
}

// Get hides shops outside the caller's scope as not found.
func (s *shopService) Get(ctx context.Context, auth *authz.AuthContext, shopID string) (*model.Shop, error) {
	d, err := s.authorizer.Authorize(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, ErrShopNotFound
	}

	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

func (s *shopService) checkGroup(ctx context.Context, storeGroupID *string) error {
	if storeGroupID == nil || *storeGroupID == "" {
		return nil
	}
	if _, err := s.shops.FindStoreGroupByID(ctx, *storeGroupID); err != nil {
		if isNotFound(err) {
			return ErrStoreGroupNotFound
		}
		return err
	}
	return nil
}

func (s *shopService) Create(ctx context.Context, auth *authz.AuthContext, name string, storeGroupID *string) (*model.Shop, error) {
	if !authz.IsSuperAdmin(auth) {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "매장명을 입력하세요")
	}
	if err := s.checkGroup(ctx, storeGroupID); err != nil {
		return nil, err
	}
	if storeGroupID != nil && *storeGroupID == "" {
		storeGroupID = nil
	}

	shop := &model.Shop{Name: name, StoreGroupID: storeGroupID}
	if err := s.shops.Create(ctx, shop); err != nil {
		return nil, err
	}

	logger.Info("Shop created", map[string]interface{}{
		"shop_id":    shop.ID,
		"created_by": auth.ID,
	})
	return shop, nil
}

// AssignStoreGroup moves a shop into a group; nil or "" removes it from any group.
func (s *shopService) AssignStoreGroup(ctx context.Context, auth *authz.AuthContext, shopID string, storeGroupID *string) (*model.Shop, error) {
	if !authz.IsSuperAdmin(auth) {
		return nil, ErrForbidden
	}
	if err := s.checkGroup(ctx, storeGroupID); err != nil {
		return nil, err
	}
	if storeGroupID != nil && *storeGroupID == "" {
		storeGroupID = nil
	}

	if err := s.shops.UpdateStoreGroup(ctx, shopID, storeGroupID); err != nil {
		if isNotFound(err) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	logger.Info("Shop store group changed", map[string]interface{}{
		"shop_id":        shopID,
		"store_group_id": storeGroupID,
		"changed_by":     auth.ID,
	})
	return s.shops.FindByID(ctx, shopID)
}

func (s *shopService) Members(ctx context.Context, auth *authz.AuthContext, shopID string) ([]model.Profile, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	return s.profiles.ListByShop(ctx, effective)
}

func (s *shopService) CreateStoreGroup(ctx context.Context, auth *authz.AuthContext, name string) (*model.StoreGroup, error) {
	if !authz.IsSuperAdmin(auth) {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "그룹명을 입력하세요")
	}
	group := &model.StoreGroup{Name: name}
	if err := s.shops.CreateStoreGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *shopService) ListStoreGroups(ctx context.Context, auth *authz.AuthContext) ([]model.StoreGroup, error) {
	if !authz.IsSuperAdmin(auth) {
		return nil, ErrForbidden
	}
	return s.shops.ListStoreGroups(ctx)
}
