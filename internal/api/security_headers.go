package api

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware 安全头中间件
// 服务只返回 JSON,Swagger UI 除外
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
