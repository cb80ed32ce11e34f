package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
)

type ShopController struct {
	shopService service.ShopService
}

func NewShopController(shopService service.ShopService) *ShopController {
	return &ShopController{shopService: shopService}
}

type CreateShopRequest struct {
	Name         string  `json:"name" binding:"required"`
	StoreGroupID *string `json:"store_group_id"`
}

type AssignStoreGroupRequest struct {
	StoreGroupID *string `json:"store_group_id"`
}

type CreateStoreGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListShops
// GET /api/v1/shops
func (ctrl *ShopController) ListShops(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	shops, err := ctrl.shopService.List(c.Request.Context(), auth)
	if err != nil {
		respondError(c, err, "list shops")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shops": shops,
		"count": len(shops),
	})
}

// GetShop
// GET /api/v1/shops/:id
func (ctrl *ShopController) GetShop(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	shop, err := ctrl.shopService.Get(c.Request.Context(), auth, c.Param("id"))
	if err != nil {
		respondError(c, err, "get shop")
		return
	}

	c.JSON(http.StatusOK, gin.H{"shop": shop})
}

// CreateShop
// POST /api/v1/shops
func (ctrl *ShopController) CreateShop(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	shop, err := ctrl.shopService.Create(c.Request.Context(), auth, req.Name, req.StoreGroupID)
	if err != nil {
		respondError(c, err, "create shop")
		return
	}

	log.Info("Shop created", map[string]interface{}{
		"shop_id": shop.ID,
	})
	c.JSON(http.StatusCreated, gin.H{"shop": shop})
}

// AssignStoreGroup sets or clears (null) the shop's store group
// PATCH /api/v1/shops/:id/store-group
func (ctrl *ShopController) AssignStoreGroup(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req AssignStoreGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	shop, err := ctrl.shopService.AssignStoreGroup(c.Request.Context(), auth, c.Param("id"), req.StoreGroupID)
	if err != nil {
		respondError(c, err, "assign store group")
		return
	}

	c.JSON(http.StatusOK, gin.H{"shop": shop})
}

// Members
// GET /api/v1/shops/:id/members
func (ctrl *ShopController) Members(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	members, err := ctrl.shopService.Members(c.Request.Context(), auth, c.Param("id"))
	if err != nil {
		respondError(c, err, "list shop members")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": members,
		"count":   len(members),
	})
}

// CreateStoreGroup
// POST /api/v1/store-groups
func (ctrl *ShopController) CreateStoreGroup(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req CreateStoreGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	group, err := ctrl.shopService.CreateStoreGroup(c.Request.Context(), auth, req.Name)
	if err != nil {
		respondError(c, err, "create store group")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"store_group": group})
}

// ListStoreGroups
// GET /api/v1/store-groups
func (ctrl *ShopController) ListStoreGroups(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	groups, err := ctrl.shopService.ListStoreGroups(c.Request.Context(), auth)
	if err != nil {
		respondError(c, err, "list store groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store_groups": groups,
		"count":        len(groups),
	})
}
