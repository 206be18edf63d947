package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults for the tunable session parameters.
const (
	DefaultTopK        = 4
	DefaultTemperature = 0.2

	defaultCredentialsFile = "credentials.json"
	defaultLogFile         = "remedy.log"
)

// Config holds the process configuration read from environment variables.
// Provider credentials (API_KEY, EMBEDDING_API_KEY, ...) are read by the
// provider constructors themselves.
type Config struct {
	// Data source
	SpreadsheetID   string
	CredentialsFile string

	// Chat provider: "openai" for any OpenAI-compatible endpoint (default),
	// or "gemini"
	Provider string

	// Retrieval and sampling parameters
	TopK        int
	Temperature float32

	// Index backend: "memory" (default) or "redis"
	IndexBackend string

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads the configuration from the environment and validates it.
// Invalid values are reported as errors rather than silently clamped.
func Load() (*Config, error) {
	cfg := &Config{
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: getEnvString("GOOGLE_CREDENTIALS_FILE", defaultCredentialsFile),
		Provider:        getEnvString("PROVIDER", "openai"),
		IndexBackend:    getEnvString("INDEX_BACKEND", "memory"),
		LogLevel:        getEnvString("LOG_LEVEL", "info"),
		LogFile:         getEnvString("LOG_FILE", defaultLogFile),
	}

	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID environment variable is required")
	}

	topK, err := getEnvInt("TOP_K", DefaultTopK)
	if err != nil {
		return nil, err
	}
	if topK < 1 {
		return nil, fmt.Errorf("TOP_K must be at least 1, got %d", topK)
	}
	cfg.TopK = topK

	temperature, err := getEnvFloat("TEMPERATURE", DefaultTemperature)
	if err != nil {
		return nil, err
	}
	if temperature < 0 || temperature > 1 {
		return nil, fmt.Errorf("TEMPERATURE must be within [0, 1], got %g", temperature)
	}
	cfg.Temperature = float32(temperature)

	switch cfg.Provider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("PROVIDER must be openai or gemini, got %q", cfg.Provider)
	}

	switch cfg.IndexBackend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("INDEX_BACKEND must be memory or redis, got %q", cfg.IndexBackend)
	}

	return cfg, nil
}

// getEnvString reads a string from environment variable
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer, rejecting unparseable values
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, val)
	}
	return n, nil
}

// getEnvFloat reads a float, rejecting unparseable values
func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, val)
	}
	return f, nil
}
