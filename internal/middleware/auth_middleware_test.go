package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/stretchr/testify/assert"
)

const testCookie = "pd_session"

type fakeResolver struct {
	sessions map[string]*authz.AuthContext
}

func (r *fakeResolver) Resolve(_ context.Context, token string) (*authz.AuthContext, error) {
	if auth, ok := r.sessions[token]; ok {
		return auth, nil
	}
	return nil, errors.New("unauthenticated")
}

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	resolver := &fakeResolver{sessions: map[string]*authz.AuthContext{
		"owner-token": {ID: "p-1", Role: model.RoleTenantAdmin, ShopID: "shop-1"},
		"admin-token": {ID: "p-2", Role: model.RoleSuperAdmin},
	}}
	return router, NewAuthMiddleware(resolver, testCookie)
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		auth, ok := GetAuthContext(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": auth.ID, "shop_id": auth.ShopID})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "owner-token"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shop-1")
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode string
	}{
		{
			name:     "no cookie",
			setup:    func(r *http.Request) {},
			wantCode: "AUTH_UNAUTHORIZED",
		},
		{
			name: "unknown session",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: testCookie, Value: "forged"})
			},
			wantCode: "AUTH_SESSION_INVALID",
		},
		{
			name: "trusting role headers is not allowed",
			setup: func(r *http.Request) {
				r.Header.Set("x-user-role", "super_admin")
				r.Header.Set("x-user-shop-id", "shop-1")
			},
			wantCode: "AUTH_UNAUTHORIZED",
		},
		{
			name: "token in another cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "session", Value: "owner-token"})
			},
			wantCode: "AUTH_UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest()
			called := false
			router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
				called = true
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
			assert.False(t, called)
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()

	router.GET("/admin",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleSuperAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	tests := []struct {
		token    string
		expected int
	}{
		{"admin-token", http.StatusOK},
		{"owner-token", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			req.AddCookie(&http.Cookie{Name: testCookie, Value: tt.token})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRoleWithoutAuthenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()
	router.GET("/admin", authMiddleware.RequireRole(model.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHZ_ROLE_NOT_FOUND")
}
