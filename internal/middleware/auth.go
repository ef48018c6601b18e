package middleware

import (
	"crypto/subtle"
	"strings"

	"finstar_backend/internal/auth"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUID    = "uid"
	ContextClaims = "claims"
)

// AuthMiddleware 校验 Bearer ID Token 并把 uid 放入请求上下文
func AuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		idToken := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := verifier.Verify(c.Request.Context(), idToken)
		if err != nil {
			logger.Log.Debug("Token verification failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(ContextUID, claims.UID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// UID 取当前请求已认证的用户 ID
func UID(c *gin.Context) string {
	return c.GetString(ContextUID)
}

// CronAuth 定时任务端点鉴权，比对 X-Cron-Secret 头
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Cron-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
