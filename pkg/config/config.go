package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	driver, err := enums.ParseStorageDriver(c.Storage.Driver)
	if err != nil {
		return err
	}
	switch driver {
	case enums.StorageDriverPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvStorageDriver, driver)
		}
	case enums.StorageDriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBSQLitePath, EnvStorageDriver, driver)
		}
	case enums.StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required when %s=%s", EnvRedisURL, EnvRedisAddr, EnvStorageDriver, driver)
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPCART_APP_ENV" default:"dev"`
	Port         string `envconfig:"SHOPCART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPCART_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"SHOPCART_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	// NotificationTTL bounds how long toast notifications stay in the feed.
	NotificationTTL time.Duration `envconfig:"SHOPCART_NOTIFICATION_TTL" default:"3s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Driver       string `envconfig:"SHOPCART_STORAGE_DRIVER" default:"memory"`
	SeedDefaults bool   `envconfig:"SHOPCART_STORAGE_SEED_DEFAULTS" default:"true"`
	CartID       string `envconfig:"SHOPCART_STORAGE_CART_ID" default:"default"`
}

// StorageDriver returns the parsed driver; Load has already rejected unknown values.
func (s StorageConfig) StorageDriver() enums.StorageDriver {
	driver, err := enums.ParseStorageDriver(s.Driver)
	if err != nil {
		return enums.StorageDriverMemory
	}
	return driver
}

type DBConfig struct {
	DSN         string `envconfig:"SHOPCART_DB_DSN"`
	SQLitePath  string `envconfig:"SHOPCART_DB_SQLITE_PATH" default:"shopcart.db"`
	AutoMigrate bool   `envconfig:"SHOPCART_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"SHOPCART_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SHOPCART_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPCART_REDIS_URL"`
	Address      string        `envconfig:"SHOPCART_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"SHOPCART_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"SHOPCART_METRICS_PATH" default:"/metrics"`
}
