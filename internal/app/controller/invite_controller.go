package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
)

type InviteController struct {
	inviteService service.InviteService
}

func NewInviteController(inviteService service.InviteService) *InviteController {
	return &InviteController{inviteService: inviteService}
}

type CreateInviteRequest struct {
	ShopID string `json:"shop_id"`
}

// CreateInvite issues a staff invite code for a shop
// POST /api/v1/invites
func (ctrl *InviteController) CreateInvite(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req CreateInviteRequest
	// body는 선택 (shop_id 생략 시 본인 매장)
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badJSON(c, err)
			return
		}
	}

	invite, err := ctrl.inviteService.Create(c.Request.Context(), auth, req.ShopID)
	if err != nil {
		respondError(c, err, "create invite")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invite": invite})
}

// ValidateInvite is public so the signup page can show the shop name
// GET /api/v1/invites/:code
func (ctrl *InviteController) ValidateInvite(c *gin.Context) {
	info, err := ctrl.inviteService.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "validate invite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite": info})
}

// ListInvites
// GET /api/v1/invites?shop_id=
func (ctrl *InviteController) ListInvites(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	invites, err := ctrl.inviteService.List(c.Request.Context(), auth, c.Query("shop_id"))
	if err != nil {
		respondError(c, err, "list invites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": invites,
		"count":   len(invites),
	})
}
