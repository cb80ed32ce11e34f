package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/internal/db"
	"github.com/ikkim/phonedesk-backend/internal/ingest"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
	"github.com/ikkim/phonedesk-backend/internal/storage"
	"github.com/ikkim/phonedesk-backend/pkg/redis"
	"github.com/ikkim/phonedesk-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testCookie = "pd_session"
	testSecret = "controller-test-secret"
)

type noSheets struct{}

func (noSheets) Fetch(context.Context, string) (*ingest.Sheet, []byte, error) {
	return nil, nil, errors.New("sheets disabled in tests")
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	shops  repository.ShopRepository
}

// setupControllerTest wires real services on sqlite behind the cookie middleware.
func setupControllerTest(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	profiles := repository.NewProfileRepository(testDB)
	shops := repository.NewShopRepository(testDB)
	consultations := repository.NewConsultationRepository(testDB)
	reports := repository.NewReportRepository(testDB)
	settings := repository.NewSettingsRepository(testDB)
	salaries := repository.NewSalaryRepository(testDB)
	invites := repository.NewInviteRepository(testDB)
	notices := repository.NewNoticeRepository(testDB)
	calendar := repository.NewCalendarRepository(testDB)
	authorizer := authz.NewAuthorizer(shops)
	locker := redis.NewNoopLocker()

	authService := service.NewAuthService(testDB, profiles, shops, util.NewSessionCodec(testSecret), 7)
	authMiddleware := middleware.NewAuthMiddleware(authService, testCookie)

	authCtrl := NewAuthController(authService, testCookie, false)
	inviteCtrl := NewInviteController(service.NewInviteService(invites, shops, authorizer))
	shopCtrl := NewShopController(service.NewShopService(shops, profiles, authorizer))
	consultationCtrl := NewConsultationController(service.NewConsultationService(consultations, reports, authorizer, locker))
	reportCtrl := NewReportController(service.NewReportService(reports, settings, authorizer, locker, storage.NewDisabledArchive(), noSheets{}))
	settingsCtrl := NewSettingsController(service.NewSettingsService(settings, authorizer))
	salaryCtrl := NewSalaryController(service.NewSalaryService(salaries, reports, settings, authorizer))
	dashboardCtrl := NewDashboardController(service.NewDashboardService(consultations, reports, authorizer))
	noticeCtrl := NewNoticeController(service.NewNoticeService(notices))
	calendarCtrl := NewCalendarController(service.NewCalendarService(calendar, profiles, authorizer))

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/logout", authCtrl.Logout)
	router.POST("/auth/signup/owner", authCtrl.SignupOwner)
	router.POST("/auth/signup/staff", authCtrl.SignupStaff)
	router.GET("/invites/:code", inviteCtrl.ValidateInvite)

	api := router.Group("", authMiddleware.Authenticate())
	api.GET("/auth/me", authCtrl.Me)
	api.POST("/invites", inviteCtrl.CreateInvite)
	api.GET("/shops", shopCtrl.ListShops)
	api.GET("/crm/consultations", consultationCtrl.ListConsultations)
	api.POST("/crm/consultations", consultationCtrl.CreateConsultation)
	api.GET("/crm/consultations/:id", consultationCtrl.GetConsultation)
	api.PATCH("/crm/consultations/:id", consultationCtrl.UpdateConsultation)
	api.POST("/crm/consultations/:id/move-to-report", consultationCtrl.MoveToReport)
	api.GET("/reports", reportCtrl.ListReports)
	api.POST("/reports/import", reportCtrl.ImportFile)
	api.POST("/reports/import-rows", reportCtrl.ImportRows)
	api.POST("/reports/check-duplicate", reportCtrl.CheckDuplicate)
	api.GET("/reports/summary", reportCtrl.Summary)
	api.GET("/shop-settings", settingsCtrl.GetSettings)
	api.PATCH("/shop-settings", settingsCtrl.UpdateSettings)
	api.GET("/salaries", salaryCtrl.Compute)
	api.GET("/salaries/export", salaryCtrl.Export)
	api.GET("/dashboard/stats", dashboardCtrl.Stats)
	api.GET("/notices", noticeCtrl.ListNotices)
	api.POST("/notices", noticeCtrl.CreateNotice)
	api.POST("/calendar/todos", calendarCtrl.CreateTodo)
	api.PUT("/calendar/leaves", calendarCtrl.UpsertLeave)

	return &testServer{router: router, db: testDB, shops: shops}
}

// do sends a JSON request with an optional session cookie.
func (s *testServer) do(t *testing.T, method, path, cookie string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signupOwner registers a shop owner and returns the session token and shop id.
func (s *testServer) signupOwner(t *testing.T, loginID, shopName string) (string, string) {
	t.Helper()
	w := s.do(t, "POST", "/auth/signup/owner", "", SignupOwnerRequest{
		LoginID:  loginID,
		Password: "password123",
		Name:     "대표 " + loginID,
		ShopName: shopName,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Shop model.Shop `json:"shop"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return sessionCookie(t, w), resp.Shop.ID
}

// signupStaff issues an invite with the owner session and signs a staff member up with it.
func (s *testServer) signupStaff(t *testing.T, ownerCookie, loginID string) string {
	t.Helper()
	w := s.do(t, "POST", "/invites", ownerCookie, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Invite model.Invite `json:"invite"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = s.do(t, "POST", "/auth/signup/staff", "", SignupStaffRequest{
		LoginID:    loginID,
		Password:   "password123",
		Name:       "직원 " + loginID,
		InviteCode: resp.Invite.Code,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

// doWithHeaders sends a bodyless request with extra headers.
func (s *testServer) doWithHeaders(t *testing.T, method, path, cookie string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c.Value
		}
	}
	t.Fatalf("response did not set %s", testCookie)
	return ""
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
