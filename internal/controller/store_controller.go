package controller

import (
	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StoreController struct {
	StoreService *service.StoreService
}

func NewStoreController(storeService *service.StoreService) *StoreController {
	return &StoreController{StoreService: storeService}
}

// @Summary 商品目录
// @Description 返回可购买的商品列表
// @Tags 商店
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.StoreItem
// @Router /api/store/items [get]
func (c *StoreController) Items(ctx *gin.Context) {
	items, err := c.StoreService.Catalog(ctx.Request.Context())
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

type purchaseRequest struct {
	ItemID string `json:"itemId"`
}

// @Summary 购买商品
// @Description 扣除金币并把商品放入背包，余额不足或重复持有返回 409
// @Tags 商店
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body purchaseRequest true "商品 ID"
// @Success 200 {object} service.PurchaseResult
// @Failure 409 {object} util.ErrorResponse
// @Router /api/store/purchase [post]
func (c *StoreController) Purchase(ctx *gin.Context) {
	var req purchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	res, err := c.StoreService.Purchase(ctx.Request.Context(), middleware.UID(ctx), req.ItemID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 我的背包
// @Description 返回当前用户已购买的商品
// @Tags 商店
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.InventoryItem
// @Router /api/store/inventory [get]
func (c *StoreController) Inventory(ctx *gin.Context) {
	items, err := c.StoreService.Inventory(ctx.Request.Context(), middleware.UID(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, items)
}
