package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
	StorageDriverMySQL    = "mysql"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host" env:"NOTES_HOST"`
	Port        int    `toml:"port" env:"NOTES_PORT"`

	// logging
	LogLevel      string `toml:"log_level" env:"NOTES_LOG_LEVEL"`
	LogsPath      string `toml:"logs_path" env:"NOTES_LOGS_PATH"`
	LogToStdout   bool   `toml:"log_to_stdout" env:"NOTES_LOG_TO_STDOUT"`
	LogFormatJSON bool   `toml:"log_format_json" env:"NOTES_LOG_FORMAT_JSON"`
	SentryEnabled bool   `toml:"sentry_enabled" env:"NOTES_SENTRY_ENABLED"`

	// storage
	StorageDriver    string `toml:"storage_driver" env:"NOTES_STORAGE_DRIVER"`
	PostgresHost     string `toml:"postgres_host" env:"NOTES_POSTGRES_HOST"`
	PostgresPort     string `toml:"postgres_port" env:"NOTES_POSTGRES_PORT"`
	PostgresDBName   string `toml:"postgres_db_name" env:"NOTES_POSTGRES_DB_NAME"`
	PostgresUser     string `toml:"postgres_user" env:"NOTES_POSTGRES_USER"`
	PostgresPassword string `toml:"-" env:"NOTES_POSTGRES_PASSWORD"`
	DBConnectRetries uint   `toml:"db_connect_retries" env:"NOTES_DB_CONNECT_RETRIES"`
	SQLitePath       string `toml:"sqlite_path" env:"NOTES_SQLITE_PATH"`
	MySQLDSN         string `toml:"-" env:"NOTES_MYSQL_DSN"`

	// redis is optional, used only for rate limiting
	RedisHost                   string `toml:"redis_host" env:"NOTES_REDIS_HOST"`
	RedisPort                   string `toml:"redis_port" env:"NOTES_REDIS_PORT"`
	RedisPassword               string `toml:"-" env:"NOTES_REDIS_PASS"`
	WriteRateLimitAllowedPerMin int    `toml:"write_rate_limit_allowed_per_min" env:"NOTES_WRITE_RATE_LIMIT"`

	AllowedOrigins []string `toml:"allowed_origins" env:"NOTES_ALLOWED_ORIGINS" env-separator:","`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host" env:"NOTES_METRICS_HOST"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port" env:"NOTES_METRICS_PORT"`
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML section of the given environment and applies the
// NOTES_* environment variable overrides on top of it. Variables from a
// .env file in the working directory are loaded first, if the file exists.
func Load(env, configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	var tomlConfig Toml
	if _, err := toml.DecodeFile(configPath, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", configPath, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env overrides: %w", err)
	}

	cfg.Environment = strings.ToLower(env)
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = StorageDriverPostgres
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return errors.New("postgres host and db name must be set")
		}
	case StorageDriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite path must be set")
		}
	case StorageDriverMySQL:
		if c.MySQLDSN == "" {
			return errors.New("mysql dsn must be set, use NOTES_MYSQL_DSN")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.StorageDriver)
	}

	return nil
}

func (c *Config) RateLimitEnabled() bool {
	return c.RedisHost != "" && c.WriteRateLimitAllowedPerMin > 0
}
