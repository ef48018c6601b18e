package controller

import (
	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary 当前排行榜
// @Description 返回本赛季前 100 名，优先读实时镜像，降级读快照
// @Tags 排行榜
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.BoardResult
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Current(ctx *gin.Context) {
	res, err := c.LeaderboardService.Current(ctx.Request.Context())
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 历史赛季排行榜
// @Description 按赛季 ID（YYYY-MM）返回快照
// @Tags 排行榜
// @Produce json
// @Security BearerAuth
// @Param seasonId path string true "赛季 ID"
// @Success 200 {object} service.BoardResult
// @Router /api/leaderboard/seasons/{seasonId} [get]
func (c *LeaderboardController) Season(ctx *gin.Context) {
	res, err := c.LeaderboardService.Season(ctx.Request.Context(), ctx.Param("seasonId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 刷新我的名次
// @Description 重算当前用户的全量名次并更新实时镜像
// @Tags 排行榜
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RefreshResult
// @Router /api/leaderboard/refresh-me [post]
func (c *LeaderboardController) RefreshMe(ctx *gin.Context) {
	res, err := c.LeaderboardService.RefreshUser(ctx.Request.Context(), middleware.UID(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
