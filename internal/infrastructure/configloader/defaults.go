package configloader

const (
	// defaultConfPath is the fallback configuration directory when no overrides are provided.
	defaultConfPath = "configs"
	// defaultServiceName is used when neither ldflags nor SERVICE_NAME provide one.
	defaultServiceName = "greeting"
	// defaultServiceVersion is used when neither ldflags nor SERVICE_VERSION provide one.
	defaultServiceVersion = "dev"
	// defaultEnvironment is used when APP_ENV is missing.
	defaultEnvironment = "development"
	// defaultDatabaseKind is the only engine the repositories speak.
	defaultDatabaseKind = "postgres"
	// defaultSchemaMode leaves the schema untouched unless configured otherwise.
	defaultSchemaMode = "none"
)

const (
	// EnvConfPath overrides the configuration directory when the flag is absent.
	EnvConfPath = "CONF_PATH"
	// EnvServiceName overrides the service name used in logs and telemetry.
	EnvServiceName = "SERVICE_NAME"
	// EnvServiceVersion overrides the service version.
	EnvServiceVersion = "SERVICE_VERSION"
	// EnvAppEnv selects the deployment environment label.
	EnvAppEnv = "APP_ENV"
	// EnvPort replaces the port part of server.http.addr.
	EnvPort = "PORT"
	// EnvDatabaseURL overrides data.postgres.dsn.
	EnvDatabaseURL = "DATABASE_URL"
	// EnvDatabaseKind overrides data.postgres.kind.
	EnvDatabaseKind = "DB_KIND"
	// EnvDatabaseUsername overrides data.postgres.username.
	EnvDatabaseUsername = "DB_USERNAME"
	// EnvDatabasePassword overrides data.postgres.password.
	EnvDatabasePassword = "DB_PASSWORD"
	// EnvSchemaMode overrides data.postgres.schema_mode.
	EnvSchemaMode = "DB_SCHEMA_MODE"
)

func resolveServiceName(explicit, env string) string {
	return firstNonEmpty(explicit, env, defaultServiceName)
}

func resolveServiceVersion(explicit, env string) string {
	return firstNonEmpty(explicit, env, defaultServiceVersion)
}

func resolveEnvironment(env string) string {
	return firstNonEmpty(env, defaultEnvironment)
}

func resolveInstanceID(host string) string {
	return firstNonEmpty(host, "unknown")
}

// applyDefaults 填充配置文件与环境变量均未提供的字段。
func applyDefaults(bc *Bootstrap) {
	pg := &bc.Data.Postgres
	if pg.Kind == "" {
		pg.Kind = defaultDatabaseKind
	}
	if pg.SchemaMode == "" {
		pg.SchemaMode = defaultSchemaMode
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
