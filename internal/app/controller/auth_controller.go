package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
)

type AuthController struct {
	authService  service.AuthService
	cookieName   string
	secureCookie bool
}

func NewAuthController(authService service.AuthService, cookieName string, secureCookie bool) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

type LoginRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupOwnerRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	ShopName string `json:"shop_name" binding:"required"`
}

type SignupStaffRequest struct {
	LoginID    string `json:"login_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name" binding:"required"`
	InviteCode string `json:"invite_code" binding:"required"`
}

type RegionManagerRequest struct {
	LoginID      string `json:"login_id" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Name         string `json:"name" binding:"required"`
	StoreGroupID string `json:"store_group_id" binding:"required"`
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookieName, token, int(ctrl.authService.SessionTTL().Seconds()), "/", "", ctrl.secureCookie, true)
}

func (ctrl *AuthController) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookieName, "", -1, "/", "", ctrl.secureCookie, true)
}

// Login verifies credentials and issues the session cookie
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	session, err := ctrl.authService.Login(c.Request.Context(), req.LoginID, req.Password)
	if err != nil {
		respondError(c, err, "login")
		return
	}

	ctrl.setSessionCookie(c, session.Token)
	log.Info("Login successful", map[string]interface{}{
		"profile_id": session.Profile.ID,
		"role":       session.Profile.Role,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"profile": session.Profile,
	})
}

// Logout clears the session cookie
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	ctrl.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the resolved context and stored profile
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	profile, err := ctrl.authService.Me(c.Request.Context(), auth)
	if err != nil {
		respondError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth":    auth,
		"profile": profile,
	})
}

// SignupOwner creates a shop with its tenant_admin
// POST /api/v1/auth/signup/owner
func (ctrl *AuthController) SignupOwner(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	session, shop, err := ctrl.authService.SignupOwner(c.Request.Context(), service.SignupOwnerInput{
		LoginID:  req.LoginID,
		Password: req.Password,
		Name:     req.Name,
		ShopName: req.ShopName,
	})
	if err != nil {
		respondError(c, err, "signup owner")
		return
	}

	ctrl.setSessionCookie(c, session.Token)
	log.Info("Owner signed up", map[string]interface{}{
		"profile_id": session.Profile.ID,
		"shop_id":    shop.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"profile": session.Profile,
		"shop":    shop,
	})
}

// SignupStaff consumes an invite code
// POST /api/v1/auth/signup/staff
func (ctrl *AuthController) SignupStaff(c *gin.Context) {
	var req SignupStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	session, err := ctrl.authService.SignupStaff(c.Request.Context(), service.SignupStaffInput{
		LoginID:    req.LoginID,
		Password:   req.Password,
		Name:       req.Name,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		respondError(c, err, "signup staff")
		return
	}

	ctrl.setSessionCookie(c, session.Token)
	c.JSON(http.StatusCreated, gin.H{
		"profile": session.Profile,
	})
}

// CreateRegionManager
// POST /api/v1/admin/region-managers
func (ctrl *AuthController) CreateRegionManager(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req RegionManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	profile, err := ctrl.authService.CreateRegionManager(c.Request.Context(), auth, service.RegionManagerInput{
		LoginID:      req.LoginID,
		Password:     req.Password,
		Name:         req.Name,
		StoreGroupID: req.StoreGroupID,
	})
	if err != nil {
		respondError(c, err, "create region manager")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"profile": profile,
	})
}
