package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	AI      AIConfig
	Capture CaptureConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// StorageConfig holds persistence configuration. Backend selects the
// store driver; FilePath and PostgresURL apply to their respective
// backends only.
type StorageConfig struct {
	Backend       string
	FilePath      string
	EncryptionKey string
	PostgresURL   string
}

// AIConfig holds AI provider configuration. Provider selects openai or
// gemini; an empty APIKey keeps the app running with AI features
// reporting that access is not configured.
type AIConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// CaptureConfig holds camera capture configuration
type CaptureConfig struct {
	DeviceSlots       int
	LowLightThreshold float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Storage defaults
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.filepath", "glowyze.db")

	// AI defaults
	v.SetDefault("ai.provider", "gemini")

	// Capture defaults
	v.SetDefault("capture.deviceslots", 1)
	v.SetDefault("capture.lowlightthreshold", 70.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Storage
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.filepath", "STORAGE_FILE_PATH")
	v.BindEnv("storage.encryptionkey", "STORAGE_ENCRYPTION_KEY")
	v.BindEnv("storage.postgresurl", "DATABASE_URL")

	// AI provider
	v.BindEnv("ai.provider", "AI_PROVIDER")
	v.BindEnv("ai.apikey", "AI_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// Capture
	v.BindEnv("capture.deviceslots", "CAPTURE_DEVICE_SLOTS")
	v.BindEnv("capture.lowlightthreshold", "CAPTURE_LOW_LIGHT_THRESHOLD")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid. A missing AI key is
// allowed: AI-backed endpoints report the condition per request.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file":
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.filepath is required for the file backend")
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgresurl is required for the postgres backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	if c.Storage.EncryptionKey != "" && len(c.Storage.EncryptionKey) != 32 {
		return fmt.Errorf("storage.encryptionkey must be exactly 32 bytes")
	}

	switch c.AI.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown ai provider: %s", c.AI.Provider)
	}

	if c.Capture.DeviceSlots < 1 {
		return fmt.Errorf("capture.deviceslots must be at least 1")
	}

	if c.Capture.LowLightThreshold < 0 || c.Capture.LowLightThreshold > 255 {
		return fmt.Errorf("capture.lowlightthreshold must be between 0 and 255")
	}

	return nil
}
