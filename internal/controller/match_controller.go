package controller

import (
	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MatchController struct {
	MatchService *service.MatchService
}

func NewMatchController(matchService *service.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

type findMatchRequest struct {
	Category string `json:"category"`
}

// @Summary 匹配对战
// @Description 优先接入等待中的对战，没有则建新局等待对手
// @Tags 对战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body findMatchRequest false "匹配分类"
// @Success 200 {object} model.QuizMatch
// @Router /api/matches/find [post]
func (c *MatchController) Find(ctx *gin.Context) {
	var req findMatchRequest
	_ = ctx.ShouldBindJSON(&req)

	match, err := c.MatchService.FindMatch(ctx.Request.Context(), middleware.UID(ctx), req.Category)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, match)
}

// @Summary 加入指定对战
// @Description 按对战 ID 加入，常用于邀请
// @Tags 对战
// @Produce json
// @Security BearerAuth
// @Param id path string true "对战 ID"
// @Success 200 {object} model.QuizMatch
// @Failure 409 {object} util.ErrorResponse
// @Router /api/matches/{id}/join [post]
func (c *MatchController) Join(ctx *gin.Context) {
	match, err := c.MatchService.JoinMatch(ctx.Request.Context(), middleware.UID(ctx), ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, match)
}

// @Summary 准备就绪
// @Description 双方都就绪后对战开始答题
// @Tags 对战
// @Produce json
// @Security BearerAuth
// @Param id path string true "对战 ID"
// @Success 200 {object} model.QuizMatch
// @Router /api/matches/{id}/ready [post]
func (c *MatchController) Ready(ctx *gin.Context) {
	match, err := c.MatchService.Ready(ctx.Request.Context(), middleware.UID(ctx), ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, match)
}

type answerRequest struct {
	QuestionIndex int `json:"questionIndex"`
	Answer        int `json:"answer"`
}

// @Summary 提交答案
// @Description 按顺序提交一题答案并计分，双方都答完后结算胜负
// @Tags 对战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "对战 ID"
// @Param body body answerRequest true "题号与选项"
// @Success 200 {object} service.AnswerResult
// @Router /api/matches/{id}/answer [post]
func (c *MatchController) Answer(ctx *gin.Context) {
	var req answerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	res, err := c.MatchService.SubmitAnswer(ctx.Request.Context(), middleware.UID(ctx), ctx.Param("id"), req.QuestionIndex, req.Answer)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 退出对战
// @Description 等待中退出直接取消，开局后退出判对方获胜
// @Tags 对战
// @Produce json
// @Security BearerAuth
// @Param id path string true "对战 ID"
// @Success 200 {object} model.QuizMatch
// @Router /api/matches/{id}/leave [post]
func (c *MatchController) Leave(ctx *gin.Context) {
	match, err := c.MatchService.LeaveMatch(ctx.Request.Context(), middleware.UID(ctx), ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, match)
}

// @Summary 查询对战状态
// @Description 返回对战当前状态，完结后附带正确答案
// @Tags 对战
// @Produce json
// @Security BearerAuth
// @Param id path string true "对战 ID"
// @Success 200 {object} model.QuizMatch
// @Router /api/matches/{id} [get]
func (c *MatchController) Get(ctx *gin.Context) {
	match, err := c.MatchService.GetMatch(ctx.Request.Context(), middleware.UID(ctx), ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, match)
}
