package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	profiles      repository.ProfileRepository
	shops         repository.ShopRepository
	consultations repository.ConsultationRepository
	reports       repository.ReportRepository
	settings      repository.SettingsRepository
	salaries      repository.SalaryRepository
	invites       repository.InviteRepository
	notices       repository.NoticeRepository
	calendar      repository.CalendarRepository
	authorizer    *authz.Authorizer

	group *model.StoreGroup
	shopA *model.Shop // group member
	shopB *model.Shop
}

func setupServiceTest(t *testing.T) *fixture {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	f := &fixture{
		db:            testDB,
		profiles:      repository.NewProfileRepository(testDB),
		shops:         repository.NewShopRepository(testDB),
		consultations: repository.NewConsultationRepository(testDB),
		reports:       repository.NewReportRepository(testDB),
		settings:      repository.NewSettingsRepository(testDB),
		salaries:      repository.NewSalaryRepository(testDB),
		invites:       repository.NewInviteRepository(testDB),
		notices:       repository.NewNoticeRepository(testDB),
		calendar:      repository.NewCalendarRepository(testDB),
	}
	f.authorizer = authz.NewAuthorizer(f.shops)

	ctx := context.Background()
	f.group = &model.StoreGroup{Name: "강남권"}
	require.NoError(t, f.shops.CreateStoreGroup(ctx, f.group))
	f.shopA = &model.Shop{Name: "강남점", StoreGroupID: &f.group.ID}
	require.NoError(t, f.shops.Create(ctx, f.shopA))
	f.shopB = &model.Shop{Name: "부산점"}
	require.NoError(t, f.shops.Create(ctx, f.shopB))
	return f
}

func ownerOf(shop *model.Shop) *authz.AuthContext {
	return &authz.AuthContext{ID: uuid.NewString(), Role: model.RoleTenantAdmin, ShopID: shop.ID, Name: "대표"}
}

func staffOf(shop *model.Shop) *authz.AuthContext {
	return &authz.AuthContext{ID: uuid.NewString(), Role: model.RoleStaff, ShopID: shop.ID, Name: "직원"}
}

func regionManagerOf(group *model.StoreGroup) *authz.AuthContext {
	return &authz.AuthContext{ID: uuid.NewString(), Role: model.RoleRegionManager, StoreGroupID: group.ID, Name: "지역장"}
}

func superAdmin() *authz.AuthContext {
	return &authz.AuthContext{ID: uuid.NewString(), Role: model.RoleSuperAdmin, Name: "본사"}
}

// createMember stores a profile so shop-member lookups can find it.
func (f *fixture) createMember(t *testing.T, shop *model.Shop, loginID string, role model.Role) *model.Profile {
	t.Helper()
	shopID := shop.ID
	p := &model.Profile{Name: loginID, LoginID: loginID, PasswordHash: "x", Role: role, ShopID: &shopID}
	require.NoError(t, f.profiles.Create(context.Background(), p))
	return p
}

func (f *fixture) countReports(t *testing.T, shopID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.ReportEntry{}).Where("shop_id = ?", shopID).Count(&n).Error)
	return n
}

func strPtr(s string) *string {
	return &s
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
