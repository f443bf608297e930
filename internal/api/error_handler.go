package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Nikhil88689/Showbay/internal/enrichment"
	"github.com/Nikhil88689/Showbay/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIError API 错误
type APIError struct {
	Status  int
	Kind    string
	Message string
	Detail  interface{}
}

func (e *APIError) Error() string {
	return e.Message
}

// TranslateError 将内部错误映射为 HTTP 状态码和错误类型
// 未分类错误和持久化错误不暴露内部原因
func TranslateError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return &APIError{
			Status:  http.StatusUnprocessableEntity,
			Kind:    KindValidation,
			Message: validationErr.Message,
			Detail:  validationErr.Fields,
		}
	}

	if errors.Is(err, service.ErrTaskNotFound) {
		return &APIError{
			Status:  http.StatusNotFound,
			Kind:    KindNotFound,
			Message: err.Error(),
		}
	}

	var enrichErr *enrichment.Error
	if errors.As(err, &enrichErr) {
		return translateEnrichmentError(enrichErr)
	}

	var storeErr *service.StoreError
	if errors.As(err, &storeErr) {
		return &APIError{
			Status:  http.StatusInternalServerError,
			Kind:    KindStore,
			Message: "A database error occurred",
		}
	}

	return &APIError{
		Status:  http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: "An unexpected error occurred",
	}
}

func translateEnrichmentError(err *enrichment.Error) *APIError {
	switch err.Kind {
	case enrichment.KindTimeout:
		return &APIError{
			Status:  http.StatusRequestTimeout,
			Kind:    KindExternalTimeout,
			Message: err.Error(),
		}
	case enrichment.KindFormat:
		return &APIError{
			Status:  http.StatusBadGateway,
			Kind:    KindExternalFormat,
			Message: err.Error(),
		}
	default:
		apiErr := &APIError{
			Status:  http.StatusBadGateway,
			Kind:    KindExternalUpstream,
			Message: err.ClientMessage(),
		}
		if err.StatusCode != 0 {
			apiErr.Detail = gin.H{"status_code": err.StatusCode}
		}
		return apiErr
	}
}

// ErrorHandlerMiddleware 错误处理中间件
// 处理器通过 c.Error 提交错误,由此统一渲染
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		apiErr := TranslateError(err)
		if apiErr.Status >= http.StatusInternalServerError {
			GetLogger().WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"kind":       apiErr.Kind,
				"path":       c.Request.URL.Path,
			}).WithError(err).Error("Request failed")
		}

		Error(c, apiErr.Status, apiErr.Kind, apiErr.Message, apiErr.Detail)
	}
}

// RecoveryMiddleware 捕获 panic 并返回 INTERNAL_ERROR
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		GetLogger().WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
			"panic":      fmt.Sprint(recovered),
		}).Error("Recovered from panic")

		Error(c, http.StatusInternalServerError, KindInternal, "An unexpected error occurred", nil)
	})
}

// NotFoundHandler 未匹配路由
func NotFoundHandler(c *gin.Context) {
	Error(c, http.StatusNotFound, KindNotFound, fmt.Sprintf("route %s %s not found", c.Request.Method, c.Request.URL.Path), nil)
}
