package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Statement sources
const (
	SourceEastmoney = "eastmoney"
	SourcePostgres  = "postgres"
	SourceFile      = "file"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Statement source: eastmoney, postgres, file
	StatementSource string

	// Optional YAML override of the embedded benchmark table
	BenchmarkFile string

	Database  DatabaseConfig
	Redis     RedisConfig
	Eastmoney EastmoneyConfig
	News      NewsConfig
	Report    ReportConfig
	Watchlist WatchlistConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration.
// Only the postgres statement source uses it.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// EastmoneyConfig holds the statement endpoint configuration
type EastmoneyConfig struct {
	BaseURL  string
	Timeout  time.Duration
	RPS      int           // requests per second, 0 = unlimited
	CacheTTL time.Duration // redis cache TTL for raw statement responses
}

// NewsConfig holds the headline feed configuration
type NewsConfig struct {
	FeedURL string // printf template, %s = url-escaped query. Empty disables news.
	Limit   int
}

// ReportConfig holds renderer output settings
type ReportConfig struct {
	Dir      string
	Theme    string // dark, medium, light
	FontPath string // UTF-8 TTF for the PDF deck
}

// WatchlistConfig holds the scheduled re-analysis settings
type WatchlistConfig struct {
	Codes    []string // code or code:name
	Schedule string   // cron expression with seconds field
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:            getEnv("PORT", "8089"),
		Env:             getEnv("ENV", "development"),
		StatementSource: getEnv("STATEMENT_SOURCE", SourceEastmoney),
		BenchmarkFile:   getEnv("BENCHMARK_FILE", ""),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Eastmoney: EastmoneyConfig{
			BaseURL:  getEnv("EASTMONEY_BASE_URL", "https://emweb.securities.eastmoney.com"),
			Timeout:  getEnvAsDuration("EASTMONEY_TIMEOUT", "15s"),
			RPS:      getEnvAsInt("EASTMONEY_RPS", 5),
			CacheTTL: getEnvAsDuration("EASTMONEY_CACHE_TTL", "6h"),
		},

		News: NewsConfig{
			FeedURL: getEnv("NEWS_FEED_URL", ""),
			Limit:   getEnvAsInt("NEWS_LIMIT", 5),
		},

		Report: ReportConfig{
			Dir:      getEnv("REPORT_DIR", "reports"),
			Theme:    getEnv("REPORT_THEME", "medium"),
			FontPath: getEnv("REPORT_FONT_PATH", ""),
		},

		Watchlist: WatchlistConfig{
			Codes:    getEnvAsList("WATCHLIST_CODES"),
			Schedule: getEnv("WATCHLIST_SCHEDULE", "0 30 18 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.StatementSource {
	case SourceEastmoney, SourceFile:
	case SourcePostgres:
		// postgres 소스만 DB 필요
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STATEMENT_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("STATEMENT_SOURCE must be one of: eastmoney, postgres, file")
	}

	switch c.Report.Theme {
	case "dark", "medium", "light":
	default:
		return fmt.Errorf("REPORT_THEME must be one of: dark, medium, light")
	}

	if c.News.Limit < 0 {
		return fmt.Errorf("NEWS_LIMIT must not be negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
