package controller

import (
	"finstar_backend/internal/middleware"
	"finstar_backend/internal/service"
	"finstar_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

type tokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// @Summary 注册推送令牌
// @Description 注册或刷新当前设备的 FCM 令牌
// @Tags 推送
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body tokenRequest true "令牌信息"
// @Success 200 {object} map[string]bool
// @Router /api/notifications/token [post]
func (c *NotificationController) RegisterToken(ctx *gin.Context) {
	var req tokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Token == "" {
		util.BadRequest(ctx, "token is required")
		return
	}

	if err := c.NotificationService.RegisterToken(ctx.Request.Context(), middleware.UID(ctx), req.Token, req.Platform); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}

// @Summary 注销推送令牌
// @Description 移除当前设备的 FCM 令牌
// @Tags 推送
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body tokenRequest true "令牌信息"
// @Success 200 {object} map[string]bool
// @Router /api/notifications/token [delete]
func (c *NotificationController) UnregisterToken(ctx *gin.Context) {
	var req tokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Token == "" {
		util.BadRequest(ctx, "token is required")
		return
	}

	if err := c.NotificationService.UnregisterToken(ctx.Request.Context(), middleware.UID(ctx), req.Token); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}

type sendRequest struct {
	TargetUID string            `json:"targetUid"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data"`
}

// @Summary 发送推送
// @Description 向指定用户的所有设备发送推送，例如好友对战邀请
// @Tags 推送
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body sendRequest true "推送内容"
// @Success 200 {object} service.NotifyResult
// @Router /api/notifications/send [post]
func (c *NotificationController) Send(ctx *gin.Context) {
	var req sendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.TargetUID == "" || req.Title == "" {
		util.BadRequest(ctx, "targetUid and title are required")
		return
	}

	result, err := c.NotificationService.SendToUser(ctx.Request.Context(), req.TargetUID, req.Title, req.Body, req.Data)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
