// Package logger 构建服务统一使用的 Kratos Logger：底层由 gclog 输出结构化 JSON，
// 上层附加 trace_id/span_id，便于日志与链路关联。
package logger

import (
	"context"

	gclog "github.com/bionicotaku/lingo-utils/gclog"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"
)

// Config captures runtime metadata used to annotate logs.
type Config struct {
	Service string
	Version string
	HostID  string
	Env     string
}

// NewLogger builds a Kratos-compatible logger with trace/span enrichment.
func NewLogger(cfg Config) (log.Logger, error) {
	base, err := gclog.NewLogger(
		gclog.WithService(cfg.Service),
		gclog.WithVersion(cfg.Version),
		gclog.WithEnvironment(cfg.Env),
		gclog.WithStaticLabels(map[string]string{"service.id": cfg.HostID}),
		gclog.EnableSourceLocation(),
	)
	if err != nil {
		return nil, err
	}
	return WithTraceContext(base), nil
}

// WithTraceContext 为任意 Logger 追加从 OpenTelemetry SpanContext 提取的 trace_id/span_id。
func WithTraceContext(base log.Logger) log.Logger {
	return log.With(
		base,
		"trace_id", log.Valuer(traceID),
		"span_id", log.Valuer(spanID),
	)
}

func traceID(ctx context.Context) interface{} {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

func spanID(ctx context.Context) interface{} {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasSpanID() {
		return sc.SpanID().String()
	}
	return ""
}
