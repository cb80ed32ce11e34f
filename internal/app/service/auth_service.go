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
	"gorm.io/gorm"
)

type SignupOwnerInput struct {
	LoginID  string
	Password string
	Name     string
	ShopName string
}

type SignupStaffInput struct {
	LoginID    string
	Password   string
	Name       string
	InviteCode string
}

type RegionManagerInput struct {
	LoginID      string
	Password     string
	Name         string
	StoreGroupID string
}

// Session is an issued login session.
type Session struct {
	Token   string
	Profile *model.Profile
}

type AuthService interface {
	Login(ctx context.Context, loginID, password string) (*Session, error)
	// Resolve turns a session token into the caller's context. Any failure is ErrUnauthenticated.
	Resolve(ctx context.Context, token string) (*authz.AuthContext, error)
	Me(ctx context.Context, auth *authz.AuthContext) (*model.Profile, error)
	SignupOwner(ctx context.Context, input SignupOwnerInput) (*Session, *model.Shop, error)
	SignupStaff(ctx context.Context, input SignupStaffInput) (*Session, error)
	CreateRegionManager(ctx context.Context, auth *authz.AuthContext, input RegionManagerInput) (*model.Profile, error)
	SessionTTL() time.Duration
}

type authService struct {
	db       *gorm.DB
	profiles repository.ProfileRepository
	shops    repository.ShopRepository
	codec    *util.SessionCodec
	ttlDays  int
	now      func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	profiles repository.ProfileRepository,
	shops repository.ShopRepository,
	codec *util.SessionCodec,
	ttlDays int,
) AuthService {
	if ttlDays <= 0 {
		ttlDays = util.DefaultSessionTTLDays
	}
	return &authService{
		db:       db,
		profiles: profiles,
		shops:    shops,
		codec:    codec,
		ttlDays:  ttlDays,
		now:      time.Now,
	}
}

func (s *authService) SessionTTL() time.Duration {
	return time.Duration(s.ttlDays) * 24 * time.Hour
}

func (s *authService) Login(ctx context.Context, loginID, password string) (*Session, error) {
	loginID = strings.TrimSpace(loginID)
	logger.Info("Login attempt", map[string]interface{}{
		"login_id": loginID,
	})

	profile, err := s.profiles.FindByLoginID(ctx, loginID)
	if err != nil {
		if isNotFound(err) {
			logger.Warn("Login failed: unknown login id", map[string]interface{}{
				"login_id": loginID,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(profile.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"profile_id": profile.ID,
		})
		return nil, ErrInvalidCredentials
	}

	session, err := s.issue(profile)
	if err != nil {
		return nil, err
	}

	logger.Info("Login successful", map[string]interface{}{
		"profile_id": profile.ID,
		"role":       profile.Role,
	})
	return session, nil
}

func (s *authService) issue(profile *model.Profile) (*Session, error) {
	token, err := s.codec.Sign(profile.ID, s.ttlDays)
	if err != nil {
		logger.Error("Failed to sign session", err, map[string]interface{}{
			"profile_id": profile.ID,
		})
		return nil, err
	}
	return &Session{Token: token, Profile: profile}, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*authz.AuthContext, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	payload, err := s.codec.Verify(token)
	if err != nil {
		logger.Debug("Session verification failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, ErrUnauthenticated
	}

	profile, err := s.profiles.FindByID(ctx, payload.Sub)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	auth := authz.NewAuthContext(profile)
	if auth == nil {
		logger.Warn("Session profile has no usable role", map[string]interface{}{
			"profile_id": profile.ID,
			"role":       profile.Role,
		})
		return nil, ErrUnauthenticated
	}
	return auth, nil
}

func (s *authService) Me(ctx context.Context, auth *authz.AuthContext) (*model.Profile, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	profile, err := s.profiles.FindByID(ctx, auth.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func validateCredentials(loginID, password, name string) error {
	if strings.TrimSpace(loginID) == "" {
		return invalid("login_id", "아이디를 입력하세요")
	}
	if len(password) < util.MinPasswordLength {
		return invalid("password", "비밀번호는 6자 이상이어야 합니다")
	}
	if strings.TrimSpace(name) == "" {
		return invalid("name", "이름을 입력하세요")
	}
	return nil
}

func (s *authService) newProfile(ctx context.Context, loginID, password, name string, role model.Role) (*model.Profile, error) {
	loginID = strings.TrimSpace(loginID)
	exists, err := s.profiles.ExistsByLoginID(ctx, loginID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrLoginIDExists
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}
	return &model.Profile{
		Name:         strings.TrimSpace(name),
		LoginID:      loginID,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

// SignupOwner creates the shop, its tenant_admin and default settings together.
func (s *authService) SignupOwner(ctx context.Context, input SignupOwnerInput) (*Session, *model.Shop, error) {
	if err := validateCredentials(input.LoginID, input.Password, input.Name); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(input.ShopName) == "" {
		return nil, nil, invalid("shop_name", "매장명을 입력하세요")
	}

	profile, err := s.newProfile(ctx, input.LoginID, input.Password, input.Name, model.RoleTenantAdmin)
	if err != nil {
		return nil, nil, err
	}
	shop := &model.Shop{Name: strings.TrimSpace(input.ShopName)}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewShopRepository(tx).Create(ctx, shop); err != nil {
			return err
		}
		profile.ShopID = &shop.ID
		if err := repository.NewProfileRepository(tx).Create(ctx, profile); err != nil {
			return err
		}
		return repository.NewSettingsRepository(tx).Upsert(ctx, model.DefaultShopSettings(shop.ID))
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, nil, ErrLoginIDExists
		}
		logger.Error("Owner signup failed", err, map[string]interface{}{
			"login_id": input.LoginID,
		})
		return nil, nil, err
	}

	logger.Info("Owner signed up", map[string]interface{}{
		"profile_id": profile.ID,
		"shop_id":    shop.ID,
	})

	session, err := s.issue(profile)
	if err != nil {
		return nil, nil, err
	}
	return session, shop, nil
}

// SignupStaff consumes the invite; a code can be used once.
func (s *authService) SignupStaff(ctx context.Context, input SignupStaffInput) (*Session, error) {
	if err := validateCredentials(input.LoginID, input.Password, input.Name); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(input.InviteCode))
	if code == "" {
		return nil, invalid("invite_code", "초대 코드를 입력하세요")
	}

	profile, err := s.newProfile(ctx, input.LoginID, input.Password, input.Name, model.RoleStaff)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invites := repository.NewInviteRepository(tx)
		invite, err := invites.FindByCode(ctx, code)
		if err != nil {
			if isNotFound(err) {
				return ErrInviteInvalid
			}
			return err
		}
		if invite.Expired(s.now()) {
			return ErrInviteInvalid
		}

		shopID := invite.ShopID
		profile.ShopID = &shopID
		if invite.Role.ShopScoped() {
			profile.Role = invite.Role
		}
		if err := repository.NewProfileRepository(tx).Create(ctx, profile); err != nil {
			return err
		}
		// 동시에 같은 코드로 가입하면 한쪽만 삭제에 성공한다
		if err := invites.Delete(ctx, code); err != nil {
			if isNotFound(err) {
				return ErrInviteInvalid
			}
			return err
		}
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrLoginIDExists
		}
		logger.Warn("Staff signup failed", map[string]interface{}{
			"login_id": input.LoginID,
			"error":    err.Error(),
		})
		return nil, err
	}

	logger.Info("Staff signed up", map[string]interface{}{
		"profile_id": profile.ID,
		"shop_id":    *profile.ShopID,
	})
	return s.issue(profile)
}

func (s *authService) CreateRegionManager(ctx context.Context, auth *authz.AuthContext, input RegionManagerInput) (*model.Profile, error) {
	if !authz.IsSuperAdmin(auth) {
		return nil, ErrForbidden
	}
	if err := validateCredentials(input.LoginID, input.Password, input.Name); err != nil {
		return nil, err
	}
	if _, err := s.shops.FindStoreGroupByID(ctx, input.StoreGroupID); err != nil {
		if isNotFound(err) {
			return nil, ErrStoreGroupNotFound
		}
		return nil, err
	}

	profile, err := s.newProfile(ctx, input.LoginID, input.Password, input.Name, model.RoleRegionManager)
	if err != nil {
		return nil, err
	}
	groupID := input.StoreGroupID
	profile.ManagedStoreGroupID = &groupID

	if err := s.profiles.Create(ctx, profile); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrLoginIDExists
		}
		return nil, err
	}

	logger.Info("Region manager created", map[string]interface{}{
		"profile_id":     profile.ID,
		"store_group_id": groupID,
		"created_by":     auth.ID,
	})
	return profile, nil
}
