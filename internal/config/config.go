package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"timesheet-service/internal/email"
)

const DEFAULT_SUPPORT_URL = "https://example.com/timesheet/help"
const QR_IMAGE_SIZE = 512

type Config struct {
	// Secret key for signing session tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// Session TTL in hours.
	SessionTTL uint   `mapstructure:"session_ttl"`
	NonceStore string `mapstructure:"nonce_store"`
	LogLevel   string `mapstructure:"log_level"`

	// Employee directory file (YAML). Seeded with demo employees when absent.
	DirectoryFile string `mapstructure:"directory_file"`

	BaseURL    string `mapstructure:"base_url"` // Base URL for the application. May be relative, e.g. /timesheet/, or absolute.
	SupportURL string `mapstructure:"support_url"`

	Storage Storage `mapstructure:"storage"`

	// Export email delivery configuration
	Email email.SMTPConfig `mapstructure:"email"`
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	// Load configuration from environment variables
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	// Convert relative sqlite path to absolute instance folder
	if cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	if cfg.DirectoryFile != "" && !os.IsPathSeparator(cfg.DirectoryFile[0]) {
		cfg.DirectoryFile = fmt.Sprintf("%s/%s", getConfigPath(), cfg.DirectoryFile)
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	Cfg = &cfg
	return &cfg, nil
}
