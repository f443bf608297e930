package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/Nikhil88689/Showbay/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqliteScheme = "sqlite://"

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}

// GetPoolConfig 获取默认连接池配置
func GetPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    20,
		ConnMaxLifetime: 300, // 5 分钟
		ConnMaxIdleTime: 600, // 10 分钟
	}
}

// BuildDSN 构建数据库 DSN
// 配置了 URL 时直接使用 URL
func BuildDSN(cfg config.DatabaseConfig) string {
	if url := strings.TrimSpace(cfg.URL); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// Dialector 根据 DSN 选择数据库驱动
// sqlite:// 开头使用 SQLite,其余使用 PostgreSQL
func Dialector(cfg config.DatabaseConfig) gorm.Dialector {
	dsn := BuildDSN(cfg)
	if strings.HasPrefix(dsn, sqliteScheme) {
		return sqlite.Open(sqlitePath(dsn))
	}
	return postgres.Open(dsn)
}

// sqlitePath 解析 SQLite URL
// sqlite:///tasks.db 为相对路径,sqlite:////var/tasks.db 为绝对路径,sqlite:// 为内存数据库
func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, sqliteScheme)
	path = strings.TrimPrefix(path, "/")
	if path == "" || path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	return path
}

// Connect 连接数据库
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 未配置的连接池参数使用默认值
	poolConfig := GetPoolConfig()
	if cfg.MaxIdleConns > 0 {
		poolConfig.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.ConnMaxLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolConfig.ConnMaxIdleTime = cfg.ConnMaxIdleTime
	}

	sqlDB.SetMaxIdleConns(poolConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(poolConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(poolConfig.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(poolConfig.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// ConnectWithRetry 带重试的数据库连接
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2 // 指数退避
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.TaskModel{}); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// CreateIndexes 创建模型标签之外的索引
func CreateIndexes(db *gorm.DB) error {
	// 列表接口同时按状态和用户过滤
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_status_user_id ON tasks(status, user_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_tasks_status_user_id: %w", err)
	}
	return nil
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
