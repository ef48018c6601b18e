package controller

import (
	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

// @Summary 每日挑战
// @Description 返回当日挑战集，当日没有时自动生成一组
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Param force query bool false "强制重新生成"
// @Success 200 {object} service.DailyResult
// @Router /api/challenges/daily [get]
func (c *ChallengeController) Daily(ctx *gin.Context) {
	force := ctx.Query("force") == "true"
	res, err := c.ChallengeService.Daily(ctx.Request.Context(), middleware.UID(ctx), force)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 领取挑战奖励
// @Description 把已完成的挑战标记为已领取
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战 ID"
// @Success 200 {object} service.DailyResult
// @Failure 400 {object} util.ErrorResponse
// @Router /api/challenges/{id}/claim [post]
func (c *ChallengeController) Claim(ctx *gin.Context) {
	res, err := c.ChallengeService.Claim(ctx.Request.Context(), middleware.UID(ctx), ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
