package api

import (
	"context"
	"fmt"

	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Tracing OpenTelemetry 追踪
type Tracing struct {
	provider *tracesdk.TracerProvider
}

// InitTracing 初始化追踪并设置为全局 TracerProvider
// 外部 API 调用的 span 与 HTTP 请求 span 共用该 provider
func InitTracing(cfg config.TracingConfig) (*Tracing, error) {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = ServiceName
	}

	var endpointOpts []jaeger.CollectorEndpointOption
	if cfg.JaegerEndpoint != "" {
		endpointOpts = append(endpointOpts, jaeger.WithEndpoint(cfg.JaegerEndpoint))
	}
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(endpointOpts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	provider := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.AlwaysSample())),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracing{provider: provider}, nil
}

// Shutdown 刷新并关闭追踪
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// TracingMiddleware 追踪中间件
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return otelgin.Middleware(serviceName)
}
