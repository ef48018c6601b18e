package controller

import (
	"net/http"

	"finstar_backend/pkg/docstore"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthController struct {
	Store docstore.Store
	Redis *redis.Client
}

func NewHealthController(store docstore.Store, rdb *redis.Client) *HealthController {
	return &HealthController{Store: store, Redis: rdb}
}

// @Summary 健康检查
// @Description 探测文档存储与 Redis 的连通性
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	status := gin.H{"status": "ok"}
	code := http.StatusOK

	if _, err := c.Store.Get(ctx.Request.Context(), "health/ping"); err != nil {
		status["status"] = "degraded"
		status["store"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	ctx.JSON(code, status)
}
