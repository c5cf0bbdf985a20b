package config

const (
	EnvPrefix = "SHOPCART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "SHOPCART_APP_ENV"
	EnvPort          = "SHOPCART_APP_PORT"
	EnvLogLevel      = "SHOPCART_LOG_LEVEL"
	EnvStorageDriver = "SHOPCART_STORAGE_DRIVER"
	EnvDBDSN         = "SHOPCART_DB_DSN"
	EnvDBSQLitePath  = "SHOPCART_DB_SQLITE_PATH"
	EnvRedisURL      = "SHOPCART_REDIS_URL"
	EnvRedisAddr     = "SHOPCART_REDIS_ADDR"
	EnvMetricsPath   = "SHOPCART_METRICS_PATH"
)
