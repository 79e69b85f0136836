package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Polling   PollingConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	// PrefersDark stands in for the client's color-scheme media query when theme is "auto"
	PrefersDark bool
}

// UpstreamConfig holds base URLs and timeouts of the dashboards we talk to
type UpstreamConfig struct {
	YellowCardURL   string
	AttendanceURL   string
	DefaultTimeout  time.Duration
	UpstreamTimeout time.Duration
}

type PollingConfig struct {
	Interval    time.Duration
	CacheMaxAge time.Duration
}

// StoreConfig selects where UI preferences are persisted
type StoreConfig struct {
	Driver string // file, redis, postgres
	Path   string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
	// PINHash is the bcrypt hash of the yellow card PIN
	PINHash string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	prefersDark, err := strconv.ParseBool(getEnv("PREFERS_DARK", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid PREFERS_DARK: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		PrefersDark: prefersDark,
	}

	// Upstream configuration
	defaultTimeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	upstreamTimeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	config.Upstream = UpstreamConfig{
		YellowCardURL:   getEnv("YELLOW_CARD_API", "https://yc.anyemp.com/api"),
		AttendanceURL:   getEnv("ATTENDANCE_API", "https://attendance.anyemp.com/api"),
		DefaultTimeout:  defaultTimeout,
		UpstreamTimeout: upstreamTimeout,
	}

	// Polling configuration
	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	cacheMaxAge, err := time.ParseDuration(getEnv("CACHE_MAX_AGE", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_MAX_AGE: %w", err)
	}

	config.Polling = PollingConfig{
		Interval:    pollInterval,
		CacheMaxAge: cacheMaxAge,
	}

	config.Store = StoreConfig{
		Driver: getEnv("STORE_DRIVER", "file"),
		Path:   getEnv("STORE_PATH", "./data"),
	}

	// Database configuration, only used by the postgres store
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "global_dashboard"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration, only used by the redis store
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		PINHash:          getEnv("YELLOW_CARD_PIN_HASH", ""),
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	config.RateLimit = RateLimitConfig{
		RPS:   rps,
		Burst: burst,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.PINHash == "" {
		return fmt.Errorf("YELLOW_CARD_PIN_HASH is required")
	}
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}

	switch c.Store.Driver {
	case "file":
		if c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required for the file store")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.Store.Driver)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
