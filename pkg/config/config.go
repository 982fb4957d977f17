package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Solscan (primary transaction provider)
	SolscanBaseURL  string
	SolscanAPIKey   string
	SolscanPageSize int

	// Shyft (secondary transaction provider)
	ShyftBaseURL  string
	ShyftAPIKey   string
	ShyftNetwork  string
	ShyftPageSize int

	// Fetcher retry policy
	FetchMaxRetries        int
	FetchBaseDelay         time.Duration
	FetchRateLimitDelay    time.Duration
	FetchRequestTimeout    time.Duration
	FetchMaxPagesPerWallet int

	// Resolution
	ResolveConcurrency int
	ResolveTimeout     time.Duration

	// Snapshot valuation
	SolanaRPCURL       string
	PriceAPIURL        string
	PriceCacheTTL      time.Duration
	DefaultSOLPriceUSD float64

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Provider defaults
		SolscanBaseURL:  getEnvOrDefault("SOLSCAN_BASE_URL", "https://pro-api.solscan.io/v2.0"),
		SolscanAPIKey:   os.Getenv("SOLSCAN_API_KEY"),
		SolscanPageSize: getIntOrDefault("SOLSCAN_PAGE_SIZE", 40),

		ShyftBaseURL:  getEnvOrDefault("SHYFT_BASE_URL", "https://api.shyft.to/sol/v1"),
		ShyftAPIKey:   os.Getenv("SHYFT_API_KEY"),
		ShyftNetwork:  getEnvOrDefault("SHYFT_NETWORK", "mainnet-beta"),
		ShyftPageSize: getIntOrDefault("SHYFT_PAGE_SIZE", 10),

		// Fetcher defaults
		FetchMaxRetries:        getIntOrDefault("FETCH_MAX_RETRIES", 3),
		FetchBaseDelay:         getDurationOrDefault("FETCH_BASE_DELAY", 2*time.Second),
		FetchRateLimitDelay:    getDurationOrDefault("FETCH_RATE_LIMIT_DELAY", 1*time.Second),
		FetchRequestTimeout:    getDurationOrDefault("FETCH_REQUEST_TIMEOUT", 15*time.Second),
		FetchMaxPagesPerWallet: getIntOrDefault("FETCH_MAX_PAGES_PER_WALLET", 250),

		// Resolution defaults
		ResolveConcurrency: getIntOrDefault("RESOLVE_CONCURRENCY", 4),
		ResolveTimeout:     getDurationOrDefault("RESOLVE_TIMEOUT", 10*time.Minute),

		// Snapshot defaults
		SolanaRPCURL:       getEnvOrDefault("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		PriceAPIURL:        getEnvOrDefault("PRICE_API_URL", "https://api.coingecko.com/api/v3"),
		PriceCacheTTL:      getDurationOrDefault("PRICE_CACHE_TTL", 5*time.Minute),
		DefaultSOLPriceUSD: getFloat64OrDefault("DEFAULT_SOL_PRICE_USD", 143.36),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "tradewars"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "tradewars123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "tradewars_resolver"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.SolscanBaseURL == "" {
		return fmt.Errorf("SOLSCAN_BASE_URL cannot be empty")
	}

	if c.ShyftBaseURL == "" {
		return fmt.Errorf("SHYFT_BASE_URL cannot be empty")
	}

	if c.SolscanPageSize <= 0 {
		return fmt.Errorf("SOLSCAN_PAGE_SIZE must be positive, got %d", c.SolscanPageSize)
	}

	if c.ShyftPageSize <= 0 {
		return fmt.Errorf("SHYFT_PAGE_SIZE must be positive, got %d", c.ShyftPageSize)
	}

	if c.FetchMaxRetries < 1 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be at least 1, got %d", c.FetchMaxRetries)
	}

	if c.ResolveConcurrency < 1 {
		return fmt.Errorf("RESOLVE_CONCURRENCY must be at least 1, got %d", c.ResolveConcurrency)
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
