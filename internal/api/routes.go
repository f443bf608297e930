package api

import (
	_ "github.com/Nikhil88689/Showbay/docs" // 导入生成的 docs 包
	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/Nikhil88689/Showbay/internal/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes 配置路由
func SetupRoutes(cfg *config.Config, db *gorm.DB, taskService service.TaskService) *gin.Engine {
	if cfg == nil {
		cfg = config.Default()
	}

	router := gin.New()

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.CORS))
	if cfg.Tracing.Enabled {
		router.Use(TracingMiddleware(cfg.Tracing.ServiceName))
	}
	router.Use(ErrorHandlerMiddleware())

	router.NoRoute(NotFoundHandler)

	// 服务信息和健康检查
	healthController := NewHealthController(db, cfg.ExternalAPI)
	router.GET("/", healthController.Root)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler(db))

	// Swagger UI 路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
	))

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		taskController := NewTaskController(taskService)
		tasks := v1.Group("/tasks")
		{
			tasks.POST("", taskController.Create)
			tasks.GET("", taskController.List)
			tasks.GET("/statistics", taskController.Statistics)
			tasks.GET("/:id", taskController.Get)
			tasks.PUT("/:id", taskController.Update)
			tasks.DELETE("/:id", taskController.Delete)
			tasks.POST("/:id/enrich", taskController.Enrich)
		}
	}

	return router
}
