package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"simulador/internal/logger"
)

// Session store backends
const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

type Config struct {
	// API Configuration
	APIBaseURL string
	APITimeout time.Duration

	// Budget Configuration
	ProfitabilityDebounce time.Duration
	BudgetValidityDays    int

	// Session Storage Configuration
	SessionStore    string
	SessionFile     string
	RedisAddress    string
	RedisPassword   string
	RedisDB         int
	RedisSessionKey string

	// Google Sheets Configuration
	GoogleSheetURL        string
	GoogleCredentialsFile string
	GoogleCredentials     string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
	LogMaxSizeMB  int
	LogMaxAgeDays int
	LogMaxBackups int
}

func Load() (*Config, error) {
	config := &Config{
		APIBaseURL:            getEnv("API_BASE_URL", "http://localhost:3000"),
		SessionStore:          getEnv("SESSION_STORE", SessionStoreFile),
		SessionFile:           getEnv("SESSION_FILE", defaultSessionFile()),
		RedisAddress:          getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisSessionKey:       getEnv("REDIS_SESSION_KEY", "simulador:session"),
		GoogleSheetURL:        getEnv("GOOGLE_SHEET_URL", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentials:     getEnv("GOOGLE_CREDENTIALS", ""),
		LogLevel:              getEnv("LOG_LEVEL", "warn"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	var err error
	if config.APITimeout, err = getDuration("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if config.ProfitabilityDebounce, err = getDuration("PROFITABILITY_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if config.BudgetValidityDays, err = getInt("BUDGET_VALIDITY_DAYS", 30); err != nil {
		return nil, err
	}
	if config.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.LogMaxSizeMB, err = getInt("LOG_MAX_SIZE_MB", 10); err != nil {
		return nil, err
	}
	if config.LogMaxAgeDays, err = getInt("LOG_MAX_AGE_DAYS", 7); err != nil {
		return nil, err
	}
	if config.LogMaxBackups, err = getInt("LOG_MAX_BACKUPS", 3); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.BudgetValidityDays <= 0 {
		return fmt.Errorf("BUDGET_VALIDITY_DAYS must be positive")
	}
	switch c.SessionStore {
	case SessionStoreFile:
		if c.SessionFile == "" {
			return fmt.Errorf("SESSION_FILE is required when SESSION_STORE=file")
		}
	case SessionStoreRedis:
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreFile, SessionStoreRedis, c.SessionStore)
	}
	return nil
}

// GoogleCredentialsJSON returns the service account key used for Google
// Sheets. Inline GOOGLE_CREDENTIALS wins over the key file. An empty result
// means neither is configured.
func (c *Config) GoogleCredentialsJSON() ([]byte, error) {
	if c.GoogleCredentials != "" {
		return []byte(c.GoogleCredentials), nil
	}
	if c.GoogleCredentialsFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read GOOGLE_APPLICATION_CREDENTIALS: %w", err)
	}
	return data, nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxAgeDays: c.LogMaxAgeDays,
		MaxBackups: c.LogMaxBackups,
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".simulador-session.json"
	}
	return filepath.Join(home, ".simulador", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return n, nil
}
