package app

import (
	"context"
	"finstar_backend/internal/auth"
	"finstar_backend/internal/config"
	"finstar_backend/internal/controller"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/service"
	"finstar_backend/pkg/database"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/gcp"
	"finstar_backend/pkg/logger"
	"finstar_backend/pkg/monitoring"
	"finstar_backend/pkg/security"
	"finstar_backend/pkg/tracing"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Store           docstore.Store
	Redis           *redis.Client
	services        *services
	limiter         *security.Limiter
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	progress    *repository.ProgressRepository
	challenge   *repository.ChallengeRepository
	achievement *repository.AchievementRepository
	checkin     *repository.CheckInRepository
	lesson      *repository.LessonRepository
	store       *repository.StoreRepository
	token       *repository.TokenRepository
	leaderboard *repository.LeaderboardRepository
	match       *repository.MatchRepository
}

type services struct {
	user         *service.UserService
	game         *service.GameService
	checkin      *service.CheckInService
	lesson       *service.LessonService
	store        *service.StoreService
	challenge    *service.ChallengeService
	achievement  *service.AchievementService
	leaderboard  *service.LeaderboardService
	match        *service.MatchService
	notification *service.NotificationService
	maintenance  *service.MaintenanceService
}

type controllers struct {
	user         *controller.UserController
	game         *controller.GameController
	checkin      *controller.CheckInController
	lesson       *controller.LessonController
	store        *controller.StoreController
	challenge    *controller.ChallengeController
	achievement  *controller.AchievementController
	leaderboard  *controller.LeaderboardController
	match        *controller.MatchController
	notification *controller.NotificationController
	cron         *controller.CronController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 响应配置热更新，依次执行已注册的回调
func (a *App) ApplyConfig(cfg interface{}) {
	updated, ok := cfg.(*config.Config)
	if !ok {
		return
	}
	a.Config = updated
	for _, callback := range a.configCallbacks {
		callback(updated)
	}
	logger.Log.Info("Config reloaded")
}

// initStore 按配置选择文档存储后端，sql 后端才会建立 MySQL 连接
func initStore(cfg *config.Config) (docstore.Store, error) {
	switch cfg.Store.Backend {
	case "rest":
		store, err := docstore.NewRESTStore(gcp.ServiceAccount{
			ProjectID:   cfg.Firebase.ProjectID,
			ClientEmail: cfg.Firebase.ClientEmail,
			PrivateKey:  cfg.Firebase.PrivateKey,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "sdk":
		store, err := docstore.NewSDKStore(context.Background(), cfg.Firebase.ProjectID)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "sql":
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		store, err := docstore.NewSQLStore(db)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return docstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func (a *App) initRepositories(store docstore.Store, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(store),
		progress:    repository.NewProgressRepository(store),
		challenge:   repository.NewChallengeRepository(store),
		achievement: repository.NewAchievementRepository(store),
		checkin:     repository.NewCheckInRepository(store),
		lesson:      repository.NewLessonRepository(store),
		store:       repository.NewStoreRepository(store),
		token:       repository.NewTokenRepository(store),
		leaderboard: repository.NewLeaderboardRepository(store, rdb),
		match:       repository.NewMatchRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, store docstore.Store) *services {
	s := &services{}

	// 挑战与成就先建，进度回调挂到产出 XP 的各服务上
	s.challenge = service.NewChallengeService(store, repos.challenge)
	s.achievement = service.NewAchievementService(store, repos.achievement)
	hooks := service.NewProgressHooks(s.challenge, s.achievement)

	s.user = service.NewUserService(store, repos.user, repos.progress)
	s.game = service.NewGameService(store, repos.progress, hooks)
	s.checkin = service.NewCheckInService(store, repos.checkin, hooks)
	s.lesson = service.NewLessonService(store, repos.lesson, hooks)
	s.store = service.NewStoreService(store, repos.store)
	s.leaderboard = service.NewLeaderboardService(store, repos.user, repos.leaderboard)
	s.match = service.NewMatchService(repos.match, repos.user)
	s.notification = service.NewNotificationService(gcp.ServiceAccount{
		ProjectID:   cfg.Firebase.ProjectID,
		ClientEmail: cfg.Firebase.ClientEmail,
		PrivateKey:  cfg.Firebase.PrivateKey,
	}, repos.token, repos.user)
	s.maintenance = service.NewMaintenanceService(store, repos.user)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, store docstore.Store, rdb *redis.Client) *controllers {
	return &controllers{
		user:         controller.NewUserController(s.user),
		game:         controller.NewGameController(s.game, repos.progress),
		checkin:      controller.NewCheckInController(s.checkin),
		lesson:       controller.NewLessonController(s.lesson),
		store:        controller.NewStoreController(s.store),
		challenge:    controller.NewChallengeController(s.challenge),
		achievement:  controller.NewAchievementController(s.achievement),
		leaderboard:  controller.NewLeaderboardController(s.leaderboard),
		match:        controller.NewMatchController(s.match),
		notification: controller.NewNotificationController(s.notification),
		cron:         controller.NewCronController(s.leaderboard, s.maintenance, s.notification),
		health:       controller.NewHealthController(store, rdb),
	}
}

// rateLimitParams 限流配置缺省值
func rateLimitParams(cfg *config.Config) (int, time.Duration) {
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	return maxRequests, window
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewRateLimiter(rateLimitParams(cfg))
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func newVerifier(cfg *config.Config) auth.Verifier {
	if cfg.Auth.Mode == "light" {
		return auth.NewLightVerifier(cfg.Firebase.ProjectID)
	}
	return auth.NewFullVerifier(cfg.Firebase.ProjectID)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	store, err := initStore(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize document store", zap.Error(err))
		log.Fatalf("Failed to initialize document store: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		Store:  store,
		Redis:  rdb,
	}

	repos := app.initRepositories(store, rdb)
	services := app.initServices(repos, cfg, store)
	app.services = services
	controllers := app.initControllers(services, repos, store, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("finstar-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, newVerifier(cfg), cfg)

	// 配置热更新时重算限流参数
	app.RegisterConfigCallback(func(updated *config.Config) {
		app.limiter.Update(rateLimitParams(updated))
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
