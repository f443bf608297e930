package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Env         string            `mapstructure:"env"`   // 环境: development, production
	Debug       bool              `mapstructure:"debug"` // 调试模式,强制 debug 日志级别
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	ExternalAPI ExternalAPIConfig `mapstructure:"external_api"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Log         LogConfig         `mapstructure:"log"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Address 返回监听地址
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
// URL 非空时优先于其他连接字段
type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 秒
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 秒
}

// ExternalAPIConfig 外部 API 配置
type ExternalAPIConfig struct {
	BaseURL      string  `mapstructure:"base_url"`      // 为空时不获取外部数据
	ResourcePath string  `mapstructure:"resource_path"` // %d 替换为外部 ID
	Timeout      float64 `mapstructure:"timeout"`       // 秒
}

// TimeoutDuration 返回超时时间
func (e ExternalAPIConfig) TimeoutDuration() time.Duration {
	return time.Duration(e.Timeout * float64(time.Second))
}

// Enabled 是否启用外部数据获取
func (e ExternalAPIConfig) Enabled() bool {
	return strings.TrimSpace(e.BaseURL) != ""
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error
	Format string `mapstructure:"format"` // 日志格式: json, text
	Output string `mapstructure:"output"` // 输出位置: stdout, file, both
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// envAliases 兼容不带 APP_ 前缀的环境变量,按顺序查找
var envAliases = map[string][]string{
	"database.url":          {"APP_DATABASE_URL", "DATABASE_URL"},
	"external_api.base_url": {"APP_EXTERNAL_API_BASE_URL", "EXTERNAL_API_BASE_URL"},
	"external_api.timeout":  {"APP_EXTERNAL_API_TIMEOUT", "EXTERNAL_API_TIMEOUT"},
	"server.host":           {"APP_SERVER_HOST", "HOST"},
	"server.port":           {"APP_SERVER_PORT", "PORT"},
	"debug":                 {"APP_DEBUG", "DEBUG"},
}

// Load 加载配置,支持配置文件、.env 文件和环境变量
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()

	// 如果提供了配置文件路径,从文件加载
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// 尝试从默认位置加载
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.showbay")
		// 忽略配置文件不存在的错误,使用默认值
		_ = v.ReadInConfig()
	}

	return decode(v)
}

// Default 返回默认配置
func Default() *Config {
	cfg, _ := decode(newViper())
	return cfg
}

// IsProduction 判断是否为生产环境
func IsProduction(cfg *Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.Env == "production"
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.ExternalAPI.Timeout <= 0 {
		return fmt.Errorf("external API timeout must be positive, got %v", c.ExternalAPI.Timeout)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// newViper 创建带默认值和环境变量绑定的 viper 实例
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// 支持环境变量
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}
	return &cfg, nil
}

// loadDotEnv 加载 .env 文件,不覆盖已有环境变量
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 环境变量
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	v.SetDefault("env", env)
	v.SetDefault("debug", false)

	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	// 数据库默认配置
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "showbay")
	v.SetDefault("database.sslmode", "disable")

	// 数据库连接池配置（根据环境设置默认值）
	if env == "production" {
		v.SetDefault("database.max_idle_conns", 10)
		v.SetDefault("database.max_open_conns", 50)
		v.SetDefault("database.conn_max_lifetime", 300) // 5 分钟
		v.SetDefault("database.conn_max_idle_time", 300)
	} else {
		v.SetDefault("database.max_idle_conns", 10)
		v.SetDefault("database.max_open_conns", 20)
		v.SetDefault("database.conn_max_lifetime", 300)
		v.SetDefault("database.conn_max_idle_time", 600) // 10 分钟
	}

	// 外部 API 默认配置
	v.SetDefault("external_api.base_url", "https://jsonplaceholder.typicode.com")
	v.SetDefault("external_api.resource_path", "/posts/%d")
	v.SetDefault("external_api.timeout", 10)

	// CORS 默认配置
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.max_age", 86400)

	// 日志配置（根据环境设置默认值）
	if env == "production" {
		v.SetDefault("log.level", "info")
		v.SetDefault("log.format", "json")
	} else {
		v.SetDefault("log.level", "debug")
		v.SetDefault("log.format", "text")
	}
	v.SetDefault("log.output", "stdout")

	// 追踪默认配置
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "showbay")
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
}
