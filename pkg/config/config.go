package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Trading defaults. Global defaults are passed explicitly into each
	// component so parsing and validation stay pure and testable.
	DefaultChainID     uint64
	DefaultSlippageBps int

	// Swap-routing aggregator
	AggregatorBaseURL string
	AggregatorAPIKey  string
	QuoteTimeout      time.Duration

	// Completion service (intent parsing)
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	LLMTimeout          time.Duration
	LLMBreakerThreshold int
	LLMBreakerCooldown  time.Duration

	// Gas estimation
	ChainRPCURLs map[uint64]string
	GasCacheTTL  time.Duration

	// HTTP request handling
	RequestTimeout time.Duration

	// Activity log
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

		// Trading defaults
		DefaultChainID:     getUint64OrDefault("DEFAULT_CHAIN_ID", 1),
		DefaultSlippageBps: getIntOrDefault("DEFAULT_SLIPPAGE_BPS", 100),

		// Aggregator defaults
		AggregatorBaseURL: getEnvOrDefault("AGGREGATOR_BASE_URL", "https://api.0x.org"),
		AggregatorAPIKey:  os.Getenv("AGGREGATOR_API_KEY"),
		QuoteTimeout:      getDurationOrDefault("QUOTE_TIMEOUT", 15*time.Second),

		// Completion service defaults
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:          getDurationOrDefault("LLM_TIMEOUT", 20*time.Second),
		LLMBreakerThreshold: getIntOrDefault("LLM_BREAKER_THRESHOLD", 3),
		LLMBreakerCooldown:  getDurationOrDefault("LLM_BREAKER_COOLDOWN", 60*time.Second),

		// Gas defaults
		ChainRPCURLs: parseChainRPCURLs(os.Getenv("CHAIN_RPC_URLS")),
		GasCacheTTL:  getDurationOrDefault("GAS_CACHE_TTL", 15*time.Second),

		// HTTP defaults
		RequestTimeout: getDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "intent"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "intent123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "intent_engine"),
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

	if c.DefaultChainID == 0 {
		return fmt.Errorf("DEFAULT_CHAIN_ID cannot be zero")
	}

	if c.DefaultSlippageBps <= 0 || c.DefaultSlippageBps > 5000 {
		return fmt.Errorf("DEFAULT_SLIPPAGE_BPS must be between 1 and 5000, got %d", c.DefaultSlippageBps)
	}

	if c.AggregatorBaseURL == "" {
		return fmt.Errorf("AGGREGATOR_BASE_URL cannot be empty")
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

// parseChainRPCURLs parses "1=https://eth.example;8453=https://base.example"
// into a chain id -> URL map. Malformed entries are skipped.
func parseChainRPCURLs(raw string) map[uint64]string {
	urls := make(map[uint64]string)
	for _, entry := range strings.Split(raw, ";") {
		id, u, found := strings.Cut(strings.TrimSpace(entry), "=")
		if !found {
			continue
		}
		chainID, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
		if err != nil || chainID == 0 || strings.TrimSpace(u) == "" {
			continue
		}
		urls[chainID] = strings.TrimSpace(u)
	}
	return urls
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

func getUint64OrDefault(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	uintVal, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return uintVal
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
