package controller

import (
	"finstar_backend/internal/middleware"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService *service.GameService
	Progress    *repository.ProgressRepository
}

func NewGameController(gameService *service.GameService, progress *repository.ProgressRepository) *GameController {
	return &GameController{GameService: gameService, Progress: progress}
}

// @Summary 提交游戏结算
// @Description 校验单局成绩并发放 XP 与金币，同步更新游戏进度
// @Tags 游戏
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gameId path string true "游戏 ID" Enums(life_swipe, budget_blitz, quiz_battle, market_explorer)
// @Param body body service.GameSubmission true "单局成绩"
// @Success 200 {object} service.GameResult
// @Failure 400 {object} util.ErrorResponse
// @Router /api/games/{gameId}/submit [post]
func (c *GameController) Submit(ctx *gin.Context) {
	var sub service.GameSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	res, err := c.GameService.Submit(ctx.Request.Context(), middleware.UID(ctx), ctx.Param("gameId"), &sub)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 查询游戏进度
// @Description 返回当前用户在指定游戏的累计进度
// @Tags 游戏
// @Produce json
// @Security BearerAuth
// @Param gameId path string true "游戏 ID"
// @Success 200 {object} model.GameProgress
// @Router /api/games/{gameId}/progress [get]
func (c *GameController) GetProgress(ctx *gin.Context) {
	progress, err := c.Progress.FindByGame(ctx.Request.Context(), middleware.UID(ctx), ctx.Param("gameId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
