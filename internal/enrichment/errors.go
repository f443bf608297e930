package enrichment

import (
	"fmt"
	"time"
)

// Kind 外部调用失败类型
type Kind string

const (
	// KindTimeout 请求超时
	KindTimeout Kind = "timeout"
	// KindUpstream 非 2xx 响应或网络错误
	KindUpstream Kind = "upstream_error"
	// KindFormat 响应体格式不正确
	KindFormat Kind = "format_error"
)

// Error 外部调用错误
type Error struct {
	Kind       Kind
	ExternalID int64
	StatusCode int           // 仅 KindUpstream 且收到响应时非 0
	Timeout    time.Duration // 仅 KindTimeout
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("request to external API timed out after %s", e.Timeout)
	case KindUpstream:
		if e.StatusCode != 0 {
			return fmt.Sprintf("external API returned status %d for ID %d", e.StatusCode, e.ExternalID)
		}
		return fmt.Sprintf("request error when connecting to external API: %v", e.Err)
	case KindFormat:
		return fmt.Sprintf("external API returned an unexpected body for ID %d: %v", e.ExternalID, e.Err)
	default:
		return fmt.Sprintf("external API error: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ClientMessage 返回给调用方的错误描述,网络错误不暴露地址和连接细节
func (e *Error) ClientMessage() string {
	if e.Kind == KindUpstream && e.StatusCode == 0 {
		return "external API is unreachable"
	}
	return e.Error()
}
