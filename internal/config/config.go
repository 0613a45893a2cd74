// Package config provides configuration management functionality.
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

// Price provider names
const (
	ProviderLive      = "live"
	ProviderSimulated = "simulated"
)

// Config holds application configuration
type Config struct {
	DataDir             string // Base directory for all databases (always absolute)
	LogLevel            string
	YahooBaseURL        string
	PriceProvider       string // live or simulated
	SymbolSuffix        string // Exchange suffix appended to bare symbols
	SymbolAliasesFile   string // Optional YAML alias overrides
	ReportSchedule      string // Cron spec for the report export job, empty disables it
	PriceCacheTTL       time.Duration
	PriceFetchTimeout   time.Duration
	PriceRateLimitRPS   float64
	Port                int
	PriceConcurrency    int
	DevMode             bool
	LastKnownGood       bool
	SeedSamplePortfolio bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := ResolveDataDir(getEnv("STOCKWISE_DATA_DIR", "./data"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:             dataDir,
		Port:                getEnvAsInt("GO_PORT", 8001),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		PriceProvider:       strings.ToLower(getEnv("PRICE_PROVIDER", ProviderLive)),
		PriceCacheTTL:       getEnvAsDuration("PRICE_CACHE_TTL", 4*time.Second),
		PriceFetchTimeout:   getEnvAsDuration("PRICE_FETCH_TIMEOUT", 4*time.Second),
		PriceConcurrency:    getEnvAsInt("PRICE_FETCH_CONCURRENCY", 4),
		PriceRateLimitRPS:   getEnvAsFloat("PRICE_RATE_LIMIT_RPS", 5),
		YahooBaseURL:        getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		SymbolSuffix:        getEnv("SYMBOL_DEFAULT_SUFFIX", ".NS"),
		SymbolAliasesFile:   getEnv("SYMBOL_ALIASES_FILE", ""),
		LastKnownGood:       getEnvAsBool("PRICE_LAST_KNOWN_GOOD", false),
		SeedSamplePortfolio: getEnvAsBool("SEED_SAMPLE_PORTFOLIO", true),
		ReportSchedule:      getEnv("REPORT_SCHEDULE", ""),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolveDataDir makes dir absolute and ensures it exists
func ResolveDataDir(dir string) (string, error) {
	absDataDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return absDataDir, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.PriceProvider {
	case ProviderLive, ProviderSimulated:
	default:
		return fmt.Errorf("invalid PRICE_PROVIDER %q: must be %q or %q", c.PriceProvider, ProviderLive, ProviderSimulated)
	}
	if c.PriceCacheTTL <= 0 {
		return fmt.Errorf("PRICE_CACHE_TTL must be positive, got %s", c.PriceCacheTTL)
	}
	if c.PriceFetchTimeout <= 0 {
		return fmt.Errorf("PRICE_FETCH_TIMEOUT must be positive, got %s", c.PriceFetchTimeout)
	}
	if c.PriceConcurrency <= 0 {
		return fmt.Errorf("PRICE_FETCH_CONCURRENCY must be positive, got %d", c.PriceConcurrency)
	}
	if c.PriceRateLimitRPS < 0 {
		return fmt.Errorf("PRICE_RATE_LIMIT_RPS must not be negative, got %g", c.PriceRateLimitRPS)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("GO_PORT out of range: %d", c.Port)
	}
	return nil
}

// Path returns a file path inside the data directory
func (c *Config) Path(name string) string {
	return filepath.Join(c.DataDir, name)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("4s") or bare seconds ("4").
// Unparseable values yield -1 so Validate reports them.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return -1
}
