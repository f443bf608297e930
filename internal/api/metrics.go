package api

import (
	"github.com/Nikhil88689/Showbay/internal/metrics"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MetricsHandler Prometheus 指标处理器
// 每次抓取时刷新数据库连接池指标
func MetricsHandler(db *gorm.DB) gin.HandlerFunc {
	handler := metrics.Handler()
	return func(c *gin.Context) {
		if db != nil {
			if err := metrics.UpdateDatabaseConnections(db); err != nil {
				GetLogger().WithError(err).Warn("Failed to update database connection metrics")
			}
		}
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
