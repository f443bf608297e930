package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 任务创建数
	tasksCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Total number of tasks created",
		},
	)

	// 任务操作数
	taskOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Total number of task mutations",
		},
		[]string{"action"}, // create, update, delete, enrich
	)

	// 外部 API 调用数
	externalAPIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_api_requests_total",
			Help: "Total number of external API requests",
		},
		[]string{"result"}, // success, timeout, upstream_error, format_error
	)

	// 外部 API 调用耗时
	externalAPIRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "external_api_request_duration_seconds",
			Help:    "External API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)

	// 任务状态分布
	tasksByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tasks_by_status",
			Help: "Number of tasks by status",
		},
		[]string{"status"},
	)
)

var (
	once sync.Once
)

func init() {
	// 注册指标
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(tasksCreatedTotal)
	prometheus.MustRegister(taskOperationsTotal)
	prometheus.MustRegister(externalAPIRequestsTotal)
	prometheus.MustRegister(externalAPIRequestDuration)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)
	prometheus.MustRegister(tasksByStatus)

	// Go 运行时指标由默认注册表提供,重复注册时忽略错误
	once.Do(func() {
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordTaskCreated 记录任务创建
func RecordTaskCreated() {
	tasksCreatedTotal.Inc()
	taskOperationsTotal.WithLabelValues("create").Inc()
}

// RecordTaskOperation 记录任务操作
func RecordTaskOperation(action string) {
	taskOperationsTotal.WithLabelValues(action).Inc()
}

// RecordExternalAPIRequest 记录外部 API 调用结果和耗时
func RecordExternalAPIRequest(result string, duration float64) {
	externalAPIRequestsTotal.WithLabelValues(result).Inc()
	externalAPIRequestDuration.Observe(duration)
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.InUse))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}

// UpdateTasksByStatus 更新任务状态分布指标
func UpdateTasksByStatus(status string, count float64) {
	tasksByStatus.WithLabelValues(status).Set(count)
}
