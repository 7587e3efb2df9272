package app

import (
	"learnpack_backend/docs"
	"learnpack_backend/internal/config"
	"learnpack_backend/internal/middleware"
	"learnpack_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/login", c.auth.Login)

		// 学习包列表和详情允许游客浏览，只返回公开内容
		optional := public.Group("", middleware.TryAuthMiddleware(cfg))
		optional.GET("/learning-packs", c.pack.List)
		optional.GET("/learning-packs/:id", c.pack.Get)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/user", c.auth.GetCurrentUser)

		authGroup.POST("/learning-packs", c.pack.Create)
		authGroup.PUT("/learning-packs/:id", c.pack.Update)
		authGroup.DELETE("/learning-packs/:id", c.pack.Delete)
		authGroup.POST("/learning-packs/:id/quiz", c.pack.GenerateQuiz)

		authGroup.GET("/user-progress", c.progress.List)
		authGroup.PUT("/user-progress", c.progress.Upsert)
		authGroup.GET("/current-learning", c.progress.CurrentLearning)

		authGroup.GET("/chat-messages", c.chat.ListMessages)
		authGroup.POST("/chat-messages", c.chat.SendMessage)

		authGroup.GET("/dashboard", c.dashboard.GetDashboard)
		authGroup.GET("/recommendations", c.recommendation.GetRecommendations)

		authGroup.POST("/objects/upload", c.upload.NewUploadURL)
		authGroup.PUT("/file-uploads", c.upload.Register)
		authGroup.GET("/file-uploads", c.upload.List)
		authGroup.POST("/file-uploads/:id/process", c.upload.Process)
	}

	// 3. 对象下载，按归属校验
	objects := router.Group("/objects")
	objects.Use(middleware.AuthMiddleware(cfg))
	{
		objects.GET("/*objectPath", c.upload.DownloadObject)
	}

	// 本地存储模式下"预签名"URL 指回本服务，由这条路由承接 PUT 直传
	if cfg.Storage.Type == "local" {
		router.PUT("/uploads/*objectPath", c.upload.DirectUpload)
	}
}
