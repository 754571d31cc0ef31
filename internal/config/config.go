package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `toml:"app"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	Logger   LoggerConfig   `toml:"logger"`
	Auth     AuthConfig     `toml:"auth"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `toml:"name" validate:"required"`
	Env                   string `toml:"env" validate:"required"`
	Host                  string `toml:"host"`
	Port                  string `toml:"port" validate:"required,numeric"`
	Version               string `toml:"version"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds" validate:"gte=0"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory store.
type PostgresConfig struct {
	DSN            string `toml:"dsn"`
	MaxConns       int32  `toml:"max_conns" validate:"gte=0"`
	MinConns       int32  `toml:"min_conns" validate:"gte=0,ltefield=MaxConns"`
	RunMigrations  bool   `toml:"run_migrations"`
	ConnMaxIdleSec int32  `toml:"conn_max_idle_seconds" validate:"gte=0"`
	ConnMaxLifeSec int32  `toml:"conn_max_life_seconds" validate:"gte=0"`
}

// RedisConfig holds Redis connection values. An empty Addr disables the
// event relay.
type RedisConfig struct {
	Addr          string `toml:"addr" validate:"omitempty,hostname_port"`
	Password      string `toml:"password"`
	DB            int    `toml:"db" validate:"gte=0"`
	EventsChannel string `toml:"events_channel" validate:"required"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level          string `toml:"level" validate:"oneof=debug info warn error dpanic panic fatal"`
	Encoding       string `toml:"encoding" validate:"oneof=json console"`
	File           string `toml:"file"`
	FileMaxSizeMB  int    `toml:"file_max_size_mb" validate:"gte=0"`
	FileMaxBackups int    `toml:"file_max_backups" validate:"gte=0"`
	FileMaxAgeDays int    `toml:"file_max_age_days" validate:"gte=0"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	Enabled               bool   `toml:"enabled"`
	JWTSecret             string `toml:"jwt_secret" validate:"required_if=Enabled true"`
	AccessTokenTTLMinutes int    `toml:"access_token_ttl_minutes" validate:"gte=0"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		App: AppConfig{
			Name:                  "department-service",
			Env:                   "development",
			Host:                  "0.0.0.0",
			Port:                  "8080",
			Version:               "dev",
			RequestTimeoutSeconds: 30,
		},
		Postgres: PostgresConfig{
			MaxConns:       10,
			MinConns:       2,
			RunMigrations:  true,
			ConnMaxIdleSec: 30,
			ConnMaxLifeSec: 300,
		},
		Redis: RedisConfig{
			EventsChannel: "departments.events",
		},
		Logger: LoggerConfig{
			Level:          "info",
			Encoding:       "json",
			FileMaxSizeMB:  100,
			FileMaxBackups: 3,
			FileMaxAgeDays: 28,
		},
		Auth: AuthConfig{
			AccessTokenTTLMinutes: 60,
		},
	}
}

// Load builds the configuration from defaults, then the optional TOML file
// named by CONFIG_FILE, then environment variables (a .env file is honored).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(cfg.Redis.DB)))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnv("APP_PORT", cfg.App.Port)
	cfg.App.Version = getEnv("APP_VERSION", cfg.App.Version)
	cfg.App.RequestTimeoutSeconds = getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", cfg.App.RequestTimeoutSeconds)

	cfg.Postgres.DSN = getEnv("POSTGRES_DSN", cfg.Postgres.DSN)
	cfg.Postgres.MaxConns = int32(getEnvAsInt("POSTGRES_MAX_CONNS", int(cfg.Postgres.MaxConns)))
	cfg.Postgres.MinConns = int32(getEnvAsInt("POSTGRES_MIN_CONNS", int(cfg.Postgres.MinConns)))
	cfg.Postgres.RunMigrations = getEnvAsBool("POSTGRES_RUN_MIGRATIONS", cfg.Postgres.RunMigrations)
	cfg.Postgres.ConnMaxIdleSec = int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", int(cfg.Postgres.ConnMaxIdleSec)))
	cfg.Postgres.ConnMaxLifeSec = int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", int(cfg.Postgres.ConnMaxLifeSec)))

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = redisDB
	cfg.Redis.EventsChannel = getEnv("REDIS_EVENTS_CHANNEL", cfg.Redis.EventsChannel)

	cfg.Logger.Level = getEnv("LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Encoding = getEnv("LOG_ENCODING", cfg.Logger.Encoding)
	cfg.Logger.File = getEnv("LOG_FILE", cfg.Logger.File)
	cfg.Logger.FileMaxSizeMB = getEnvAsInt("LOG_FILE_MAX_SIZE_MB", cfg.Logger.FileMaxSizeMB)
	cfg.Logger.FileMaxBackups = getEnvAsInt("LOG_FILE_MAX_BACKUPS", cfg.Logger.FileMaxBackups)
	cfg.Logger.FileMaxAgeDays = getEnvAsInt("LOG_FILE_MAX_AGE_DAYS", cfg.Logger.FileMaxAgeDays)

	cfg.Auth.Enabled = getEnvAsBool("AUTH_ENABLED", cfg.Auth.Enabled)
	cfg.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.AccessTokenTTLMinutes = getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", cfg.Auth.AccessTokenTTLMinutes)

	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
