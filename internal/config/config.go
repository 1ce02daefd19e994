package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Sheets   SheetsConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Plan     PlanConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// SheetsConfig identifies the shared spreadsheet and its worksheets.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	UsersTable      string
	PortfolioTable  string
	PlanTable       string
}

// PostgresConfig holds DB connection values for the fallback row store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session token parameters. There is no password or
// second factor: identity is possession of an active staff ID.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// CacheConfig bounds the freshness windows of the two shared read caches.
type CacheConfig struct {
	UsersTTLSeconds     int
	PortfolioTTLSeconds int
}

// PlanConfig controls daily plan persistence.
type PlanConfig struct {
	Timezone string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "sales-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
			CredentialsFile: os.Getenv("SHEETS_CREDENTIALS_FILE"),
			UsersTable:      getEnv("SHEETS_USERS_TABLE", "Users"),
			PortfolioTable:  getEnv("SHEETS_PORTFOLIO_TABLE", "retail_data"),
			PlanTable:       getEnv("SHEETS_PLAN_TABLE", "plan"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 480),
		},
		Cache: CacheConfig{
			UsersTTLSeconds:     getEnvAsInt("CACHE_USERS_TTL_SECONDS", 300),
			PortfolioTTLSeconds: getEnvAsInt("CACHE_PORTFOLIO_TTL_SECONDS", 120),
		},
		Plan: PlanConfig{
			Timezone: getEnv("PLAN_TIMEZONE", "Asia/Phnom_Penh"),
		},
	}

	return cfg, nil
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

// UsersTTL is the directory cache freshness window.
func (c CacheConfig) UsersTTL() time.Duration {
	return time.Duration(c.UsersTTLSeconds) * time.Second
}

// PortfolioTTL is the portfolio snapshot freshness window.
func (c CacheConfig) PortfolioTTL() time.Duration {
	return time.Duration(c.PortfolioTTLSeconds) * time.Second
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
