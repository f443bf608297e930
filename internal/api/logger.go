package api

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/sirupsen/logrus"
)

// ServiceName 服务名称,作为日志默认字段
const ServiceName = "showbay"

var (
	defaultLogger *logrus.Logger
	loggerMu      sync.RWMutex
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// NewLogger 创建新的日志记录器
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(jsonFormatter())
	logger.SetLevel(logrus.InfoLevel)
	logger.SetOutput(os.Stdout)
	return logger
}

// NewLoggerFromConfig 根据配置创建日志记录器
func NewLoggerFromConfig(cfg *config.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	// 设置日志格式
	if cfg.Format == "json" {
		logger.SetFormatter(jsonFormatter())
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
		})
	}

	// 设置日志级别
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// 设置日志输出
	var writers []io.Writer
	if cfg.Output == "stdout" || cfg.Output == "both" {
		writers = append(writers, os.Stdout)
	}
	if cfg.Output == "file" || cfg.Output == "both" {
		logDir := "logs"
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, err
		}

		logFile := filepath.Join(logDir, ServiceName+".log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		writers = append(writers, file)
	}

	if len(writers) == 0 {
		writers = []io.Writer{os.Stdout}
	}

	logger.SetOutput(io.MultiWriter(writers...))

	// 添加默认字段（用于日志聚合）
	logger.AddHook(&defaultFieldsHook{
		fields: map[string]interface{}{
			"service": ServiceName,
		},
	})

	return logger, nil
}

func jsonFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		TimestampFormat: timestampFormat,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "time",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "msg",
		},
	}
}

// defaultFieldsHook 添加默认字段的 Hook
type defaultFieldsHook struct {
	fields map[string]interface{}
}

func (h *defaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *defaultFieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, exists := entry.Data[k]; !exists {
			entry.Data[k] = v
		}
	}
	return nil
}

// GetLogger 获取默认日志记录器
func GetLogger() *logrus.Logger {
	loggerMu.RLock()
	logger := defaultLogger
	loggerMu.RUnlock()
	if logger != nil {
		return logger
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger()
	}
	return defaultLogger
}

// SetLogger 替换默认日志记录器
func SetLogger(logger *logrus.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = logger
}

// SetLoggerOutput 设置日志输出
func SetLoggerOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// SetLoggerLevel 设置日志级别
func SetLoggerLevel(level logrus.Level) {
	GetLogger().SetLevel(level)
}

// ApplyLogLevel 按配置调整日志级别,无效级别被忽略
func ApplyLogLevel(logger *logrus.Logger, level string) bool {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return false
	}
	logger.SetLevel(parsed)
	return true
}
