package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Nikhil88689/Showbay/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL 默认外部 API 地址
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"
	// DefaultResourcePath 默认资源路径模板,%d 替换为外部 ID
	DefaultResourcePath = "/posts/%d"
	// DefaultTimeout 默认超时时间
	DefaultTimeout = 10 * time.Second

	// maxBodySize 响应体最大读取字节数
	maxBodySize = 1 << 20
)

// Config 外部 API 客户端配置
type Config struct {
	BaseURL      string
	ResourcePath string
	Timeout      time.Duration
}

// Fetcher 外部数据获取接口
type Fetcher interface {
	Fetch(ctx context.Context, externalID int64) (json.RawMessage, error)
}

// Client 外部 API 客户端
// 每次调用只发出一个 GET 请求,不做重试
type Client struct {
	baseURL      string
	resourcePath string
	timeout      time.Duration
	httpClient   *http.Client
	tracer       trace.Tracer
}

// NewClient 创建外部 API 客户端
func NewClient(cfg Config) *Client {
	resourcePath := cfg.ResourcePath
	if resourcePath == "" {
		resourcePath = DefaultResourcePath
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		resourcePath: resourcePath,
		timeout:      timeout,
		httpClient:   &http.Client{Timeout: timeout},
		tracer:       otel.Tracer("github.com/Nikhil88689/Showbay/internal/enrichment"),
	}
}

// Timeout 返回请求超时时间
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// URL 返回外部 ID 对应的请求地址
func (c *Client) URL(externalID int64) string {
	return c.baseURL + fmt.Sprintf(c.resourcePath, externalID)
}

// Fetch 获取外部数据
// 成功时返回压缩后的 JSON 对象;失败时返回 *Error
func (c *Client) Fetch(ctx context.Context, externalID int64) (json.RawMessage, error) {
	// 调用方取消不影响外部请求,只受超时约束
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "enrichment.Fetch", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int64("external.id", externalID))

	start := time.Now()
	payload, err := c.fetch(ctx, externalID)
	elapsed := time.Since(start).Seconds()

	result := "success"
	if err != nil {
		var enrichErr *Error
		if errors.As(err, &enrichErr) {
			result = string(enrichErr.Kind)
			if enrichErr.StatusCode != 0 {
				span.SetAttributes(attribute.Int("http.status_code", enrichErr.StatusCode))
			}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.RecordExternalAPIRequest(result, elapsed)

	return payload, err
}

func (c *Client) fetch(ctx context.Context, externalID int64) (json.RawMessage, error) {
	url := c.URL(externalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, ExternalID: externalID, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(externalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 丢弃响应体以便连接复用
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &Error{Kind: KindUpstream, ExternalID: externalID, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, c.classifyTransportError(externalID, err)
	}
	if len(body) > maxBodySize {
		return nil, &Error{Kind: KindFormat, ExternalID: externalID, Err: fmt.Errorf("response body exceeds %d bytes", maxBodySize)}
	}

	return decodeObject(externalID, body)
}

// classifyTransportError 区分超时与其他网络错误
func (c *Client) classifyTransportError(externalID int64, err error) error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, ExternalID: externalID, Timeout: c.timeout, Err: err}
	}
	return &Error{Kind: KindUpstream, ExternalID: externalID, Err: err}
}

// decodeObject 校验响应体必须是 JSON 对象,并返回压缩后的内容
func decodeObject(externalID int64, body []byte) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, &Error{Kind: KindFormat, ExternalID: externalID, Err: fmt.Errorf("invalid JSON object: %w", err)}
	}
	if obj == nil {
		return nil, &Error{Kind: KindFormat, ExternalID: externalID, Err: errors.New("response body is null")}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return nil, &Error{Kind: KindFormat, ExternalID: externalID, Err: err}
	}
	return json.RawMessage(buf.Bytes()), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
