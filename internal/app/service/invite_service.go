package service

import (
	"context"
	"strings"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"github.com/ikkim/phonedesk-backend/pkg/util"
)

const inviteCodeAttempts = 3

// InviteInfo is what an unauthenticated signup page may learn about a code.
type InviteInfo struct {
	Code      string    `json:"code"`
	ShopID    string    `json:"shop_id"`
	ShopName  string    `json:"shop_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

type InviteService interface {
	Create(ctx context.Context, auth *authz.AuthContext, shopID string) (*model.Invite, error)
	Validate(ctx context.Context, code string) (*InviteInfo, error)
	List(ctx context.Context, auth *authz.AuthContext, shopID string) ([]model.Invite, error)
}

type inviteService struct {
	invites    repository.InviteRepository
	shops      repository.ShopRepository
	authorizer *authz.Authorizer
	now        func() time.Time
}

func NewInviteService(
	invites repository.InviteRepository,
	shops repository.ShopRepository,
	authorizer *authz.Authorizer,
) InviteService {
	return &inviteService{
		invites:    invites,
		shops:      shops,
		authorizer: authorizer,
		now:        time.Now,
	}
}

func (s *inviteService) Create(ctx context.Context, auth *authz.AuthContext, shopID string) (*model.Invite, error) {
	if auth == nil || !authz.CanInvite(auth.Role) {
		return nil, ErrForbidden
	}
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	if _, err := s.shops.FindByID(ctx, effective); err != nil {
		if isNotFound(err) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	now := s.now()
	var lastErr error
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := util.GenerateInviteCode()
		if err != nil {
			return nil, err
		}
		invite := &model.Invite{
			Code:      code,
			ShopID:    effective,
			Role:      model.RoleStaff,
			CreatedBy: auth.ID,
			ExpiresAt: now.Add(model.InviteTTL),
		}
		if err := s.invites.Create(ctx, invite); err != nil {
			lastErr = err
			if isDuplicateKey(err) {
				continue
			}
			return nil, err
		}

		logger.Info("Invite created", map[string]interface{}{
			"shop_id":    effective,
			"created_by": auth.ID,
			"expires_at": invite.ExpiresAt,
		})
		return invite, nil
	}
	return nil, lastErr
}

func (s *inviteService) Validate(ctx context.Context, code string) (*InviteInfo, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	invite, err := s.invites.FindByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInviteInvalid
		}
		return nil, err
	}
	if invite.Expired(s.now()) {
		return nil, ErrInviteInvalid
	}

	shop, err := s.shops.FindByID(ctx, invite.ShopID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInviteInvalid
		}
		return nil, err
	}
	return &InviteInfo{
		Code:      invite.Code,
		ShopID:    shop.ID,
		ShopName:  shop.Name,
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

func (s *inviteService) List(ctx context.Context, auth *authz.AuthContext, shopID string) ([]model.Invite, error) {
	if auth == nil || !authz.CanInvite(auth.Role) {
		return nil, ErrForbidden
	}
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	return s.invites.ListActiveByShop(ctx, effective, s.now())
}
