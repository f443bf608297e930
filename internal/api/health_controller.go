package api

import (
	"net/http"
	"time"

	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/Nikhil88689/Showbay/internal/database"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version 服务版本
const Version = "1.0.0"

// HealthController 健康检查控制器
type HealthController struct {
	db          *gorm.DB
	externalAPI config.ExternalAPIConfig
}

// NewHealthController 创建健康检查控制器
func NewHealthController(db *gorm.DB, externalAPI config.ExternalAPIConfig) *HealthController {
	return &HealthController{
		db:          db,
		externalAPI: externalAPI,
	}
}

// Root 服务信息
// @Summary      服务信息
// @Tags         系统
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"message": "Showbay Task Management API",
		"version": Version,
		"docs":    "/swagger/index.html",
	})
}

// Check 健康检查
// 外部 API 只报告是否配置,不发起请求
// @Summary      健康检查
// @Tags         系统
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := "healthy"
	checks := make(map[string]string)

	if c.db != nil {
		if err := database.CheckHealth(ctx.Request.Context(), c.db); err != nil {
			status = "unhealthy"
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}
	} else {
		status = "unhealthy"
		checks["database"] = "not configured"
	}

	if c.externalAPI.Enabled() {
		checks["external_api"] = "configured"
	} else {
		checks["external_api"] = "not configured"
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	ctx.JSON(httpStatus, gin.H{
		"status":    status,
		"service":   ServiceName,
		"version":   Version,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}
