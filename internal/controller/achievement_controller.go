package controller

import (
	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 成就列表
// @Description 返回完整成就目录及当前用户的进度
// @Tags 成就
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Achievement
// @Router /api/achievements [get]
func (c *AchievementController) List(ctx *gin.Context) {
	achievements, err := c.AchievementService.List(ctx.Request.Context(), middleware.UID(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// @Summary 检查成就解锁
// @Description 对照当前统计推进成就进度，返回本次新解锁的成就
// @Tags 成就
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UnlockedAchievement
// @Router /api/achievements/check [post]
func (c *AchievementController) Check(ctx *gin.Context) {
	unlocked, err := c.AchievementService.CheckAndUnlock(ctx.Request.Context(), middleware.UID(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, unlocked)
}
