package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverDisk     = "disk"
	StorageDriverSQLite   = "sqlite"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`

	// storage
	StorageDriver  string `toml:"storage_driver"`
	DataDir        string `toml:"data_dir"`
	SQLitePath     string `toml:"sqlite_path"`
	CacheSizeMB    int    `toml:"cache_size_mb"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	RedisKeyPrefix string `toml:"redis_key_prefix"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// sessions
	ProgressionPolicy string `toml:"progression_policy"`

	// rate limiting needs redis, either as the storage driver or via redis_host
	RateLimitAllowedPerMin int `toml:"rate_limit_allowed_per_min"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, fmt.Errorf("no [development] section")
		}
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, fmt.Errorf("no [production] section")
		}
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path, picks the section for env, fills in defaults and validates it.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.StorageDriver == "" {
		c.StorageDriver = StorageDriverDisk
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "./data/gymbros.db"
	}
	if c.RedisKeyPrefix == "" {
		c.RedisKeyPrefix = "gymbros:"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.ProgressionPolicy == "" {
		c.ProgressionPolicy = "first"
	}
	if c.RateLimitAllowedPerMin <= 0 {
		c.RateLimitAllowedPerMin = 10
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.CacheSizeMB < 0 {
		return fmt.Errorf("%w: negative cache size", ErrInvalidConfig)
	}

	switch c.StorageDriver {
	case StorageDriverMemory, StorageDriverDisk, StorageDriverSQLite:
	case StorageDriverRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("%w: redis driver needs redis_host and redis_port", ErrInvalidConfig)
		}
	case StorageDriverPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("%w: postgres driver needs postgres_host, postgres_port and postgres_db_name", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver [%s]", ErrInvalidConfig, c.StorageDriver)
	}

	switch c.ProgressionPolicy {
	case "first", "best", "last":
	default:
		return fmt.Errorf("%w: unknown progression policy [%s]", ErrInvalidConfig, c.ProgressionPolicy)
	}

	return nil
}
