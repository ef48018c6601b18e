package controller

import (
	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// @Summary 结算课程完成
// @Description 发放课程奖励，首次完成计入统计，重复完成按折扣发放
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LessonCompletion true "完成信息"
// @Success 200 {object} service.LessonResult
// @Failure 400 {object} util.ErrorResponse
// @Router /api/lessons/complete [post]
func (c *LessonController) Complete(ctx *gin.Context) {
	var req service.LessonCompletion
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	res, err := c.LessonService.Complete(ctx.Request.Context(), middleware.UID(ctx), &req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
