// Package authz decides which shop a caller may act on.
//
// Every tenant-scoped read or write goes through Authorizer.Authorize with the
// caller's AuthContext and the shop id named by the request (empty when the
// request names none). The decision is computed fresh per request; store group
// membership is looked up every time and never cached.
package authz

import (
	"context"
	"errors"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
)

var ErrForbidden = errors.New("접근 권한이 없습니다")

// AuthContext identifies the caller of one request.
type AuthContext struct {
	ID           string     `json:"id"`
	Role         model.Role `json:"role"`
	ShopID       string     `json:"shop_id,omitempty"`
	StoreGroupID string     `json:"store_group_id,omitempty"`
	Name         string     `json:"name"`
}

// NewAuthContext builds the context from a stored profile. It returns nil when the
// profile has no usable role so callers fail closed.
func NewAuthContext(p *model.Profile) *AuthContext {
	if p == nil || !p.Role.Valid() {
		return nil
	}
	ac := &AuthContext{ID: p.ID, Role: p.Role, Name: p.Name}
	if p.ShopID != nil {
		ac.ShopID = *p.ShopID
	}
	if p.ManagedStoreGroupID != nil {
		ac.StoreGroupID = *p.ManagedStoreGroupID
	}
	return ac
}

// Decision is the outcome of Authorize. EffectiveShopID is empty only for a
// super_admin that named no shop, meaning "no shop filter".
type Decision struct {
	Allowed         bool
	EffectiveShopID string
}

// GroupMembership answers whether a shop currently belongs to a store group.
type GroupMembership interface {
	ShopBelongsToStoreGroup(ctx context.Context, shopID, storeGroupID string) (bool, error)
}

type Authorizer struct {
	groups GroupMembership
}

func NewAuthorizer(groups GroupMembership) *Authorizer {
	return &Authorizer{groups: groups}
}

// Authorize applies the role rules:
//
//	super_admin     always allowed; effective = requested (may be empty)
//	region_manager  requested shop must be in the caller's store group
//	tenant_admin,
//	staff           requested must be empty or equal the caller's shop; effective = caller's shop
//
// Any other role, or a missing scoping id, is denied. An error is returned only
// when the membership lookup itself fails.
func (a *Authorizer) Authorize(ctx context.Context, auth *AuthContext, requestedShopID string) (Decision, error) {
	if auth == nil {
		return Decision{}, nil
	}

	switch auth.Role {
	case model.RoleSuperAdmin:
		return Decision{Allowed: true, EffectiveShopID: requestedShopID}, nil

	case model.RoleRegionManager:
		if requestedShopID == "" || auth.StoreGroupID == "" {
			return Decision{}, nil
		}
		ok, err := a.groups.ShopBelongsToStoreGroup(ctx, requestedShopID, auth.StoreGroupID)
		if err != nil {
			return Decision{}, err
		}
		if !ok {
			return Decision{}, nil
		}
		return Decision{Allowed: true, EffectiveShopID: requestedShopID}, nil

	case model.RoleTenantAdmin, model.RoleStaff:
		if auth.ShopID == "" {
			return Decision{}, nil
		}
		if requestedShopID != "" && requestedShopID != auth.ShopID {
			return Decision{}, nil
		}
		return Decision{Allowed: true, EffectiveShopID: auth.ShopID}, nil
	}

	return Decision{}, nil
}

// Require is Authorize for callers that only need the effective shop id and
// treat a denial as ErrForbidden.
func (a *Authorizer) Require(ctx context.Context, auth *AuthContext, requestedShopID string) (string, error) {
	d, err := a.Authorize(ctx, auth, requestedShopID)
	if err != nil {
		return "", err
	}
	if !d.Allowed {
		return "", ErrForbidden
	}
	return d.EffectiveShopID, nil
}

// RequireShop is Require for operations that must target exactly one shop
// (writes, settings, salary). A super_admin must name the shop.
func (a *Authorizer) RequireShop(ctx context.Context, auth *AuthContext, requestedShopID string) (string, error) {
	shopID, err := a.Require(ctx, auth, requestedShopID)
	if err != nil {
		return "", err
	}
	if shopID == "" {
		return "", ErrShopRequired
	}
	return shopID, nil
}

// ErrShopRequired is returned when a super_admin omits the shop for a single-shop operation.
var ErrShopRequired = errors.New("매장을 지정해야 합니다")

// CanManageShop reports roles allowed to change shop-level configuration
// such as settings. Scope is still checked separately.
func CanManageShop(role model.Role) bool {
	return role == model.RoleSuperAdmin || role == model.RoleTenantAdmin || role == model.RoleRegionManager
}

// CanInvite reports roles allowed to issue and list staff invites.
func CanInvite(role model.Role) bool {
	return role == model.RoleSuperAdmin || role == model.RoleTenantAdmin
}

// CanSaveSalary reports roles allowed to persist salary snapshots.
func CanSaveSalary(role model.Role) bool {
	return role == model.RoleSuperAdmin || role == model.RoleTenantAdmin
}

func IsSuperAdmin(auth *AuthContext) bool {
	return auth != nil && auth.Role == model.RoleSuperAdmin
}
