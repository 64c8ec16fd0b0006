// Package testenv 为集成测试提供临时数据库：启动容器、有界轮询就绪状态，
// 并把连接参数以环境变量形式交给 configloader 消费。
package testenv

import (
	"github.com/bionicotaku/lingo-services-greeting/internal/infrastructure/configloader"
)

// KindPostgres 是 ConnectionParams.Kind 的取值，与 data.postgres.kind 一致。
const KindPostgres = "postgres"

// ConnectionParams 是一次 Start 产出的连接参数，Stop 后即失效。
type ConnectionParams struct {
	Kind       string
	Username   string
	Password   string
	URL        string
	SchemaMode string
}

// Env 返回 configloader 识别的环境变量覆盖集合，空值不会出现在结果中。
func (p ConnectionParams) Env() map[string]string {
	env := make(map[string]string, 5)
	put := func(key, value string) {
		if value != "" {
			env[key] = value
		}
	}
	put(configloader.EnvDatabaseKind, p.Kind)
	put(configloader.EnvDatabaseUsername, p.Username)
	put(configloader.EnvDatabasePassword, p.Password)
	put(configloader.EnvDatabaseURL, p.URL)
	put(configloader.EnvSchemaMode, p.SchemaMode)
	return env
}

// Apply 通过 setenv 注入全部覆盖项，测试中通常传入 t.Setenv。
func (p ConnectionParams) Apply(setenv func(key, value string)) {
	for k, v := range p.Env() {
		setenv(k, v)
	}
}
