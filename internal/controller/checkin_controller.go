package controller

import (
	"strconv"

	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CheckInController struct {
	CheckInService *service.CheckInService
}

func NewCheckInController(checkInService *service.CheckInService) *CheckInController {
	return &CheckInController{CheckInService: checkInService}
}

// @Summary 每日签到
// @Description 推进连击并发放签到奖励，当日重复签到返回已签到标志
// @Tags 签到
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CheckInResult
// @Router /api/checkin [post]
func (c *CheckInController) CheckIn(ctx *gin.Context) {
	res, err := c.CheckInService.CheckIn(ctx.Request.Context(), middleware.UID(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 签到历史
// @Description 按日期倒序返回最近的签到记录
// @Tags 签到
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回数量" default(30)
// @Success 200 {array} model.CheckInRecord
// @Router /api/checkin/history [get]
func (c *CheckInController) History(ctx *gin.Context) {
	limit := 0
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	records, err := c.CheckInService.HistoryRecords(ctx.Request.Context(), middleware.UID(ctx), limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
