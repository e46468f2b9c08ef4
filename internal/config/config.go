package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds the application configuration
type Config struct {
	DataDir    string
	Storage    string
	StorageKey string
	HTTPAddr   string
	ExportDir  string
	EventTitle string
	LogLevel   string
	LogFormat  string

	WhatsAppEnabled bool
	WhatsAppDataDir string
	WhatsAppShareTo string
}

// LoadConfig loads configuration from an optional .env file, environment
// variables and defaults.
func LoadConfig() (*Config, error) {
	// A missing .env is fine, real environment variables still win
	_ = godotenv.Load()

	enabled, err := strconv.ParseBool(getEnv("WHATSAPP_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid WHATSAPP_ENABLED: %w", err)
	}

	cfg := &Config{
		DataDir:         getEnv("GUESTS_DATA_DIR", "data"),
		Storage:         strings.ToLower(getEnv("GUESTS_STORAGE", StorageFile)),
		StorageKey:      getEnv("GUESTS_STORAGE_KEY", "guests"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ExportDir:       getEnv("EXPORT_DIR", "."),
		EventTitle:      getEnv("EVENT_TITLE", "מוזמנים - בר ולשם"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "console")),
		WhatsAppEnabled: enabled,
		WhatsAppDataDir: getEnv("WHATSAPP_DATA_DIR", "data"),
		WhatsAppShareTo: os.Getenv("WHATSAPP_SHARE_TO"),
	}
	if _, set := os.LookupEnv("HTTP_ADDR"); !set {
		cfg.HTTPAddr = ":8080"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []string

	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		errs = append(errs, fmt.Sprintf("GUESTS_STORAGE (%q) must be one of: file, sqlite, memory", c.Storage))
	}
	if c.StorageKey == "" || strings.ContainsAny(c.StorageKey, `/\`) {
		errs = append(errs, fmt.Sprintf("GUESTS_STORAGE_KEY (%q) must be a plain name", c.StorageKey))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.LogLevel))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: console, json", c.LogFormat))
	}

	if c.WhatsAppEnabled && c.WhatsAppShareTo == "" {
		errs = append(errs, "WHATSAPP_SHARE_TO is required when WHATSAPP_ENABLED is true")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
