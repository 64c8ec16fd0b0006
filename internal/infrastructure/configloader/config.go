package configloader

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap 是配置文件的顶层结构，由 Kratos config 扫描填充。
type Bootstrap struct {
	Server        ServerConfig        `json:"server"`
	Data          DataConfig          `json:"data"`
	Observability ObservabilityConfig `json:"observability"`
}

// ServerConfig 描述 HTTP 监听与 Handler 超时策略。
type ServerConfig struct {
	HTTP     HTTPConfig    `json:"http"`
	Handlers HandlerConfig `json:"handlers"`
}

// HTTPConfig 对应 Kratos http.Server 的 Network/Address/Timeout 选项。
type HTTPConfig struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr" validate:"required"`
	Timeout Duration `json:"timeout"`
}

// HandlerConfig 控制不同类型 Handler 的上下文超时。
type HandlerConfig struct {
	DefaultTimeout Duration `json:"default_timeout"`
	CommandTimeout Duration `json:"command_timeout"`
}

// DataConfig 聚合存储相关配置。
type DataConfig struct {
	Postgres PostgresConfig `json:"postgres"`
}

// PostgresConfig 描述连接池、schema 生成与事务参数。
//
// Username/Password 非空时覆盖 DSN 中的 userinfo，便于测试环境分别注入凭据。
type PostgresConfig struct {
	Kind                     string            `json:"kind" validate:"omitempty,oneof=postgres postgresql"`
	DSN                      string            `json:"dsn" validate:"required"`
	Username                 string            `json:"username"`
	Password                 string            `json:"password"`
	MaxOpenConns             int32             `json:"max_open_conns" validate:"gte=0"`
	MinOpenConns             int32             `json:"min_open_conns" validate:"gte=0"`
	MaxConnLifetime          Duration          `json:"max_conn_lifetime"`
	MaxConnIdleTime          Duration          `json:"max_conn_idle_time"`
	HealthCheckPeriod        Duration          `json:"health_check_period"`
	Schema                   string            `json:"schema"`
	SchemaMode               string            `json:"schema_mode" validate:"omitempty,oneof=none create drop-and-create validate"`
	EnablePreparedStatements bool              `json:"enable_prepared_statements"`
	Transaction              TransactionConfig `json:"transaction"`
}

// TransactionConfig 映射到 lingo-utils txmanager.Config。
type TransactionConfig struct {
	DefaultIsolation string   `json:"default_isolation"`
	DefaultTimeout   Duration `json:"default_timeout"`
	LockTimeout      Duration `json:"lock_timeout"`
	MaxRetries       int      `json:"max_retries" validate:"gte=0"`
	MetricsEnabled   *bool    `json:"metrics_enabled"`
}

// ObservabilityConfig 描述追踪与指标导出配置。
type ObservabilityConfig struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          *TracingConfig    `json:"tracing"`
	Metrics          *MetricsConfig    `json:"metrics"`
}

// TracingConfig 对应 observability.TracingConfig 的常用子集。
type TracingConfig struct {
	Enabled       bool              `json:"enabled"`
	Exporter      string            `json:"exporter"`
	Endpoint      string            `json:"endpoint"`
	Headers       map[string]string `json:"headers"`
	Insecure      bool              `json:"insecure"`
	SamplingRatio float64           `json:"sampling_ratio" validate:"gte=0,lte=1"`
	Required      bool              `json:"required"`
}

// MetricsConfig 对应 observability.MetricsConfig 的常用子集。
type MetricsConfig struct {
	Enabled             bool              `json:"enabled"`
	Exporter            string            `json:"exporter"`
	Endpoint            string            `json:"endpoint"`
	Headers             map[string]string `json:"headers"`
	Insecure            bool              `json:"insecure"`
	Interval            Duration          `json:"interval"`
	DisableRuntimeStats bool              `json:"disable_runtime_stats"`
	Required            bool              `json:"required"`
}

// Duration 支持 "1.5s" 形式的字符串，纯数字按秒解释。
type Duration struct {
	time.Duration
}

// UnmarshalJSON 实现 json.Unmarshaler。
func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		d.Duration = 0
	case float64:
		d.Duration = time.Duration(v * float64(time.Second))
	case string:
		if v == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
	return nil
}

// MarshalJSON 实现 json.Marshaler。
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
