package configloader

import (
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/txmanager"
)

// toObservabilityConfig 将配置文件中的 observability 段转换为 observability 包的规范化结构。
func toObservabilityConfig(src ObservabilityConfig) obswire.ObservabilityConfig {
	cfg := obswire.ObservabilityConfig{
		GlobalAttributes: cloneStringMap(src.GlobalAttributes),
	}
	if tr := src.Tracing; tr != nil {
		cfg.Tracing = &obswire.TracingConfig{
			Enabled:       tr.Enabled,
			Exporter:      tr.Exporter,
			Endpoint:      tr.Endpoint,
			Headers:       cloneStringMap(tr.Headers),
			Insecure:      tr.Insecure,
			SamplingRatio: tr.SamplingRatio,
			Required:      tr.Required,
		}
	}
	if mt := src.Metrics; mt != nil {
		cfg.Metrics = &obswire.MetricsConfig{
			Enabled:             mt.Enabled,
			Exporter:            mt.Exporter,
			Endpoint:            mt.Endpoint,
			Headers:             cloneStringMap(mt.Headers),
			Insecure:            mt.Insecure,
			Interval:            mt.Interval.Duration,
			DisableRuntimeStats: mt.DisableRuntimeStats,
			Required:            mt.Required,
			// 仅暴露 HTTP 接口，gRPC 指标无意义。
			GRPCEnabled:       false,
			GRPCIncludeHealth: false,
		}
	}
	return cfg
}

func toTxManagerConfig(tx TransactionConfig) txmanager.Config {
	cfg := txmanager.Config{
		DefaultIsolation: tx.DefaultIsolation,
		DefaultTimeout:   tx.DefaultTimeout.Duration,
		LockTimeout:      tx.LockTimeout.Duration,
		MaxRetries:       tx.MaxRetries,
	}
	if tx.MetricsEnabled != nil {
		v := *tx.MetricsEnabled
		cfg.MetricsEnabled = &v
	}
	return cfg
}

// cloneStringMap 创建字符串映射的拷贝，源为空时返回 nil。
func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
