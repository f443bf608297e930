package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误类型
const (
	KindValidation          = "VALIDATION_ERROR"
	KindNotFound            = "NOT_FOUND"
	KindExternalTimeout     = "EXTERNAL_API_TIMEOUT"
	KindExternalUpstream    = "EXTERNAL_API_ERROR"
	KindExternalFormat      = "EXTERNAL_API_FORMAT_ERROR"
	KindStore               = "STORE_ERROR"
	KindInternal            = "INTERNAL_ERROR"
	EnrichmentWarningHeader = "X-Enrichment-Warning"
)

// ErrorResponse 错误响应格式
// @Description 统一错误响应,包含错误类型、错误消息和可选的字段级详情
type ErrorResponse struct {
	Error   string      `json:"error" example:"VALIDATION_ERROR"`             // 错误类型
	Message string      `json:"message" example:"request validation failed"` // 错误消息
	Detail  interface{} `json:"detail,omitempty" swaggertype:"object"`       // 错误详情(可选)
}

// OK 200 响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204 响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应
func Error(c *gin.Context, status int, kind, message string, detail interface{}) {
	if status < 400 || status >= 600 {
		status = http.StatusInternalServerError
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   kind,
		Message: message,
		Detail:  detail,
	})
}
