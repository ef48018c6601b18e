package util

import (
	"errors"
	"net/http"

	"finstar_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Success 业务结果原样返回，各结果结构体自带 success 等标志位
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Success: false, Error: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// FromError 按业务错误映射状态码：参数错误 400，未找到 404，余额不足/重复持有 409，其余 500
func FromError(c *gin.Context, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		BadRequest(c, vErr.Msg)
		return
	}
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrLessonNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrMatchNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientCoins),
		errors.Is(err, ErrItemAlreadyOwned),
		errors.Is(err, ErrMatchUnavailable),
		errors.Is(err, ErrMatchNotReady):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotInMatch), errors.Is(err, ErrPermissionDenied):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidGame):
		Error(c, http.StatusBadRequest, err.Error())
	default:
		logger.Log.Error("Internal server error", zap.Error(err))
		InternalServerError(c)
	}
}
