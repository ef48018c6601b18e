package app

import (
	"finstar_backend/docs"
	"finstar_backend/internal/auth"
	"finstar_backend/internal/config"
	"finstar_backend/internal/middleware"
	"finstar_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, verifier auth.Verifier, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/health", c.health.Health)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(verifier))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerPlayRoutes(authGroup, c)
		a.registerMatchRoutes(authGroup, c)
	}

	// 3. 定时任务路由，共享密钥鉴权
	cronGroup := router.Group("/api/cron")
	cronGroup.Use(middleware.CronAuth(cfg.Cron.Secret))
	{
		cronGroup.POST("/leaderboard/refresh", c.cron.RefreshLeaderboard)
		cronGroup.POST("/streaks/reset", c.cron.ResetStreaks)
		cronGroup.POST("/notifications/streak-reminder", c.cron.StreakReminder)
		cronGroup.POST("/notifications/challenge-reminder", c.cron.ChallengeReminder)
	}
}

func (a *App) registerUserRoutes(group *gin.RouterGroup, c *controllers) {
	users := group.Group("/users")
	{
		users.POST("/init", c.user.Init)
		users.GET("/me", c.user.Profile)
		users.GET("/me/stats", c.user.Stats)
		users.GET("/search", c.user.Search)
	}

	notifications := group.Group("/notifications")
	{
		notifications.POST("/token", c.notification.RegisterToken)
		notifications.DELETE("/token", c.notification.UnregisterToken)
		notifications.POST("/send", c.notification.Send)
	}
}

func (a *App) registerPlayRoutes(group *gin.RouterGroup, c *controllers) {
	games := group.Group("/games")
	{
		games.POST("/:gameId/submit", c.game.Submit)
		games.GET("/:gameId/progress", c.game.GetProgress)
	}

	checkin := group.Group("/checkin")
	{
		checkin.POST("", c.checkin.CheckIn)
		checkin.GET("/history", c.checkin.History)
	}

	lessons := group.Group("/lessons")
	{
		lessons.POST("/complete", c.lesson.Complete)
	}

	store := group.Group("/store")
	{
		store.GET("/items", c.store.Items)
		store.POST("/purchase", c.store.Purchase)
		store.GET("/inventory", c.store.Inventory)
	}

	challenges := group.Group("/challenges")
	{
		challenges.GET("/daily", c.challenge.Daily)
		challenges.POST("/:id/claim", c.challenge.Claim)
	}

	achievements := group.Group("/achievements")
	{
		achievements.GET("", c.achievement.List)
		achievements.POST("/check", c.achievement.Check)
	}

	leaderboard := group.Group("/leaderboard")
	{
		leaderboard.GET("", c.leaderboard.Current)
		leaderboard.GET("/seasons/:seasonId", c.leaderboard.Season)
		leaderboard.POST("/refresh-me", c.leaderboard.RefreshMe)
	}
}

func (a *App) registerMatchRoutes(group *gin.RouterGroup, c *controllers) {
	matches := group.Group("/matches")
	{
		matches.POST("/find", c.match.Find)
		matches.POST("/:id/join", c.match.Join)
		matches.POST("/:id/ready", c.match.Ready)
		matches.POST("/:id/answer", c.match.Answer)
		matches.POST("/:id/leave", c.match.Leave)
		matches.GET("/:id", c.match.Get)
	}
}
