package api

import (
	"time"

	"github.com/Nikhil88689/Showbay/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogMiddleware 请求日志中间件
func RequestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		// 使用路由模板作为指标标签,避免 ID 造成高基数
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(method, route, status, latency.Seconds())

		entry := GetLogger().WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    latency.String(),
			"ip":         c.ClientIP(),
		})

		// 根据状态码选择日志级别
		if status >= 500 {
			entry.Error("API request")
		} else if status >= 400 {
			entry.Warn("API request")
		} else {
			entry.Info("API request")
		}
	}
}
