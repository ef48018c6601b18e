package controller

import (
	"strconv"

	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

type initRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// @Summary 初始化用户档案
// @Description 首次登录时创建带新手礼包的用户档案，已存在则原样返回
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body initRequest true "档案信息"
// @Success 200 {object} service.InitResult
// @Router /api/users/init [post]
func (c *UserController) Init(ctx *gin.Context) {
	uid := middleware.UID(ctx)
	var req initRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = "Player"
	}

	res, err := c.UserService.Init(ctx.Request.Context(), uid, req.DisplayName, req.Email)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 获取个人档案
// @Description 返回当前用户档案与等级进度
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileResult
// @Router /api/users/me [get]
func (c *UserController) Profile(ctx *gin.Context) {
	res, err := c.UserService.Profile(ctx.Request.Context(), middleware.UID(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 获取个人统计
// @Description 返回档案、等级进度与各游戏进度
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.StatsResult
// @Router /api/users/me/stats [get]
func (c *UserController) Stats(ctx *gin.Context) {
	res, err := c.UserService.Stats(ctx.Request.Context(), middleware.UID(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 搜索用户
// @Description 按昵称前缀搜索，结果带好友关系标志；关键词少于 2 个字符返回空列表
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜索关键词"
// @Param limit query int false "返回数量" default(20)
// @Success 200 {object} service.SearchResult
// @Router /api/users/search [get]
func (c *UserController) Search(ctx *gin.Context) {
	limit := 20
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	res, err := c.UserService.Search(ctx.Request.Context(), middleware.UID(ctx), ctx.Query("q"), limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
