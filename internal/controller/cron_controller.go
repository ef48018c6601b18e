package controller

import (
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CronController 定时任务入口，路由挂在 CronAuth 中间件之后
type CronController struct {
	LeaderboardService  *service.LeaderboardService
	MaintenanceService  *service.MaintenanceService
	NotificationService *service.NotificationService
}

func NewCronController(
	leaderboard *service.LeaderboardService,
	maintenance *service.MaintenanceService,
	notifications *service.NotificationService,
) *CronController {
	return &CronController{
		LeaderboardService:  leaderboard,
		MaintenanceService:  maintenance,
		NotificationService: notifications,
	}
}

// @Summary 全量重建排行榜
// @Description 重建本赛季快照与实时镜像
// @Tags 定时任务
// @Produce json
// @Param X-Cron-Secret header string true "任务密钥"
// @Success 200 {object} service.RefreshResult
// @Router /api/cron/leaderboard/refresh [post]
func (c *CronController) RefreshLeaderboard(ctx *gin.Context) {
	res, err := c.LeaderboardService.RefreshFull(ctx.Request.Context())
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 清零断签连击
// @Description 清零昨天之前活跃且连击未断用户的连击，dryRun=true 只统计
// @Tags 定时任务
// @Produce json
// @Param X-Cron-Secret header string true "任务密钥"
// @Param dryRun query bool false "只统计不落库"
// @Success 200 {object} service.StreakResetResult
// @Router /api/cron/streaks/reset [post]
func (c *CronController) ResetStreaks(ctx *gin.Context) {
	dryRun := ctx.Query("dryRun") == "true"
	res, err := c.MaintenanceService.ResetStreaks(ctx.Request.Context(), dryRun)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 连击提醒推送
// @Description 给今天还没活跃且连击未断的用户推送提醒
// @Tags 定时任务
// @Produce json
// @Param X-Cron-Secret header string true "任务密钥"
// @Success 200 {object} service.NotifyResult
// @Router /api/cron/notifications/streak-reminder [post]
func (c *CronController) StreakReminder(ctx *gin.Context) {
	res, err := c.NotificationService.StreakReminder(ctx.Request.Context())
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 每日挑战提醒推送
// @Description 给今天已活跃的用户推送挑战提醒
// @Tags 定时任务
// @Produce json
// @Param X-Cron-Secret header string true "任务密钥"
// @Success 200 {object} service.NotifyResult
// @Router /api/cron/notifications/challenge-reminder [post]
func (c *CronController) ChallengeReminder(ctx *gin.Context) {
	res, err := c.NotificationService.ChallengeReminder(ctx.Request.Context())
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
