package container

import (
	"fmt"
	"time"

	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/Nikhil88689/Showbay/internal/database"
	"github.com/Nikhil88689/Showbay/internal/enrichment"
	"github.com/Nikhil88689/Showbay/internal/repository"
	"github.com/Nikhil88689/Showbay/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理数据库连接、外部 API 客户端和任务服务
type Container struct {
	db          *gorm.DB
	fetcher     enrichment.Fetcher
	taskService service.TaskService
}

// NewContainer 创建依赖注入容器
// logger 为 nil 时使用 logrus 标准日志
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// 1. 初始化数据库(带重试机制)
	// 默认重试 3 次,初始间隔 1 秒,指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 2. 初始化外部 API 客户端,未配置 base_url 时不获取外部数据
	var fetcher enrichment.Fetcher
	if cfg.ExternalAPI.Enabled() {
		fetcher = enrichment.NewClient(enrichment.Config{
			BaseURL:      cfg.ExternalAPI.BaseURL,
			ResourcePath: cfg.ExternalAPI.ResourcePath,
			Timeout:      cfg.ExternalAPI.TimeoutDuration(),
		})
	} else {
		logger.Warn("External API base URL is not configured, enrichment disabled")
	}

	// 3. 初始化仓储和服务
	taskRepo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(taskRepo, fetcher, logger)

	return &Container{
		db:          db,
		fetcher:     fetcher,
		taskService: taskService,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Fetcher 获取外部 API 客户端,未配置时为 nil
func (c *Container) Fetcher() enrichment.Fetcher {
	return c.fetcher
}

// TaskService 获取任务服务
func (c *Container) TaskService() service.TaskService {
	return c.taskService
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		return database.Close(c.db)
	}
	return nil
}
