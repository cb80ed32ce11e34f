package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_SignupOwnerAndMe(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "POST", "/auth/signup/owner", "", SignupOwnerRequest{
		LoginID:  "owner1",
		Password: "password123",
		Name:     "홍대표",
		ShopName: "강남점",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var cookieHeader string
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			assert.Equal(t, 7*24*60*60, c.MaxAge)
			cookieHeader = c.Value
		}
	}
	require.NotEmpty(t, cookieHeader)

	w = s.do(t, "GET", "/auth/me", cookieHeader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	auth := resp["auth"].(map[string]interface{})
	assert.Equal(t, "tenant_admin", auth["role"])
	assert.NotEmpty(t, auth["shop_id"])

	profile := resp["profile"].(map[string]interface{})
	assert.Equal(t, "owner1", profile["login_id"])
	assert.NotContains(t, profile, "password_hash")
}

func TestAuthController_SignupOwner_DuplicateLoginID(t *testing.T) {
	s := setupControllerTest(t)
	s.signupOwner(t, "owner1", "강남점")

	w := s.do(t, "POST", "/auth/signup/owner", "", SignupOwnerRequest{
		LoginID:  "owner1",
		Password: "password123",
		Name:     "다른 대표",
		ShopName: "부산점",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTH_LOGIN_ID_EXISTS", decode(t, w)["error"])
}

func TestAuthController_SignupOwner_ShortPassword(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "POST", "/auth/signup/owner", "", SignupOwnerRequest{
		LoginID:  "owner1",
		Password: "123",
		Name:     "홍대표",
		ShopName: "강남점",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", resp["error"])
	assert.Contains(t, resp["fields"], "password")
}

func TestAuthController_Login(t *testing.T) {
	s := setupControllerTest(t)
	s.signupOwner(t, "owner1", "강남점")

	tests := []struct {
		name     string
		req      LoginRequest
		wantCode int
		wantErr  string
	}{
		{"success", LoginRequest{LoginID: "owner1", Password: "password123"}, http.StatusOK, ""},
		{"wrong password", LoginRequest{LoginID: "owner1", Password: "nope-nope"}, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS"},
		{"unknown id", LoginRequest{LoginID: "ghost", Password: "password123"}, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS"},
		{"missing fields", LoginRequest{}, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, "POST", "/auth/login", "", tt.req)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, decode(t, w)["error"])
				return
			}
			assert.NotEmpty(t, sessionCookie(t, w))
		})
	}
}

func TestAuthController_LoginMessageDoesNotRevealWhichFieldFailed(t *testing.T) {
	s := setupControllerTest(t)
	s.signupOwner(t, "owner1", "강남점")

	wrongPassword := s.do(t, "POST", "/auth/login", "", LoginRequest{LoginID: "owner1", Password: "nope-nope"})
	unknownID := s.do(t, "POST", "/auth/login", "", LoginRequest{LoginID: "ghost", Password: "password123"})

	assert.Equal(t, wrongPassword.Body.String(), unknownID.Body.String())
}

func TestAuthController_Logout(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "POST", "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			cleared = c.MaxAge < 0 && c.Value == ""
		}
	}
	assert.True(t, cleared)
}

func TestAuthController_StaffSignupWithInvite(t *testing.T) {
	s := setupControllerTest(t)
	ownerCookie, shopID := s.signupOwner(t, "owner1", "강남점")
	staffCookie := s.signupStaff(t, ownerCookie, "staff1")

	w := s.do(t, "GET", "/auth/me", staffCookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	auth := decode(t, w)["auth"].(map[string]interface{})
	assert.Equal(t, "staff", auth["role"])
	assert.Equal(t, shopID, auth["shop_id"])
}

func TestAuthController_ForgedCookieRejected(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "GET", "/auth/me", "eyJhbGciOiJIUzI1NiJ9.e30.forged", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
