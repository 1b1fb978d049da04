package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	AlphaVantage AlphaVantageConfig
	Pipeline     PipelineConfig
	Database     DatabaseConfig
	Server       ServerConfig
	Scheduler    SchedulerConfig
}

// AlphaVantageConfig holds upstream API configuration
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
}

// PipelineConfig holds ETL run configuration
type PipelineConfig struct {
	Symbols        []string
	RawDataDir     string
	FetchEnabled   bool
	RateLimitPause time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// SchedulerConfig holds the recurring-run configuration
type SchedulerConfig struct {
	CronSpec string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		AlphaVantage: AlphaVantageConfig{
			APIKey:  os.Getenv("ALPHAVANTAGE_API_KEY"),
			BaseURL: getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co"),
		},
		Pipeline: PipelineConfig{
			Symbols:        splitSymbols(getEnv("ETL_SYMBOLS", "AAPL,GOOG,MSFT")),
			RawDataDir:     getEnv("ETL_RAW_DATA_DIR", "raw_data"),
			FetchEnabled:   getEnvBool("ETL_FETCH_ENABLED", true),
			RateLimitPause: getEnvDuration("ETL_RATE_LIMIT_PAUSE", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "stockdata"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Scheduler: SchedulerConfig{
			CronSpec: getEnv("ETL_CRON_SPEC", "0 18 * * *"),
		},
	}
}

// Validate checks that the configuration is usable before any work begins
func (c *Config) Validate() error {
	if c.Pipeline.FetchEnabled && c.AlphaVantage.APIKey == "" {
		return fmt.Errorf("configuration error: ALPHAVANTAGE_API_KEY is required when fetching is enabled")
	}
	if len(c.Pipeline.Symbols) == 0 {
		return fmt.Errorf("configuration error: ETL_SYMBOLS must name at least one symbol")
	}
	if c.Pipeline.RawDataDir == "" {
		return fmt.Errorf("configuration error: ETL_RAW_DATA_DIR must not be empty")
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func splitSymbols(s string) []string {
	var symbols []string
	for _, part := range strings.Split(s, ",") {
		if sym := strings.ToUpper(strings.TrimSpace(part)); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
