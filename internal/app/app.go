package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnpack_backend/internal/config"
	"learnpack_backend/internal/controller"
	"learnpack_backend/internal/repository"
	"learnpack_backend/internal/service"
	"learnpack_backend/pkg/database"
	"learnpack_backend/pkg/logger"
	"learnpack_backend/pkg/monitoring"
	"learnpack_backend/pkg/security"
	"learnpack_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	pack     *repository.PackRepository
	progress *repository.ProgressRepository
	chat     *repository.ChatRepository
	activity *repository.ActivityRepository
	upload   *repository.FileUploadRepository
}

type services struct {
	ai             *service.AIService
	auth           *service.AuthService
	storage        *service.StorageService
	pack           *service.PackService
	progress       *service.ProgressService
	chat           *service.ChatService
	recommendation *service.RecommendationService
	dashboard      *service.DashboardService
	upload         *service.UploadService
}

type controllers struct {
	auth           *controller.AuthController
	pack           *controller.PackController
	progress       *controller.ProgressController
	chat           *controller.ChatController
	dashboard      *controller.DashboardController
	recommendation *controller.RecommendationController
	upload         *controller.UploadController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，分发给已注册的回调
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		pack:     repository.NewPackRepository(db),
		progress: repository.NewProgressRepository(db),
		chat:     repository.NewChatRepository(db),
		activity: repository.NewActivityRepository(db),
		upload:   repository.NewFileUploadRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, service.NewHTTPIdentityProvider(cfg), cfg)
	s.recommendation = service.NewRecommendationService(repos.pack, repos.activity, repos.progress, s.ai, rdb)
	s.pack = service.NewPackService(repos.pack, s.ai)
	s.progress = service.NewProgressService(repos.progress, repos.activity, s.recommendation)
	s.chat = service.NewChatService(repos.chat, repos.progress, repos.activity, s.ai)
	s.dashboard = service.NewDashboardService(s.progress, s.recommendation, repos.progress)
	s.upload = service.NewUploadService(repos.upload, repos.activity, s.storage, s.ai)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth),
		pack:           controller.NewPackController(s.pack),
		progress:       controller.NewProgressController(s.progress),
		chat:           controller.NewChatController(s.chat),
		dashboard:      controller.NewDashboardController(s.dashboard),
		recommendation: controller.NewRecommendationController(s.recommendation),
		upload:         controller.NewUploadController(s.upload, s.storage),
		health:         controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只做推荐缓存，连不上时降级为直查
		logger.Log.Warn("Redis unavailable, recommendation cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learnpack-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

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
