// Package config handles configuration loading for datamakelaar.
// It supports XDG config paths, project-level overrides, and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for datamakelaar.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Datasets DatasetsConfig `mapstructure:"datasets"`
	Export   ExportConfig   `mapstructure:"export"`
	Push     PushConfig     `mapstructure:"push"`
}

// APIConfig holds LUXS Insights API settings.
type APIConfig struct {
	// ClientID is the OAuth2 client ID.
	ClientID string `mapstructure:"client_id"`
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string `mapstructure:"client_secret"`
	// BaseURL is the API base URL.
	BaseURL string `mapstructure:"base_url"`
	// AuthURL is the OAuth2 token endpoint.
	AuthURL string `mapstructure:"auth_url"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatasetsConfig holds dataset definition settings.
type DatasetsConfig struct {
	// Dir is the directory holding dataset definition YAML files.
	// Empty means the built-in datasets only.
	Dir string `mapstructure:"dir"`
}

// ExportConfig holds workbook export settings.
type ExportConfig struct {
	// Dir is where pulled workbooks are written.
	Dir string `mapstructure:"dir"`
	// OnlyActive limits pulls to active objects.
	OnlyActive bool `mapstructure:"only_active"`
}

// PushConfig holds batch update settings.
type PushConfig struct {
	BatchSize  int           `mapstructure:"batch_size"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (LUXS_CLIENT_ID, LUXS_CLIENT_SECRET, ...)
// 2. Project config (.datamakelaar.yaml in current directory or parent)
// 3. User config (~/.config/datamakelaar/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("api.client_id", "LUXS_CLIENT_ID")
	v.BindEnv("api.client_secret", "LUXS_CLIENT_SECRET")
	v.BindEnv("api.base_url", "LUXS_API_URL")
	v.BindEnv("api.auth_url", "LUXS_AUTH_URL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.API.ClientID = os.ExpandEnv(cfg.API.ClientID)
	cfg.API.ClientSecret = os.ExpandEnv(cfg.API.ClientSecret)
	cfg.API.BaseURL = forceHTTPS(cfg.API.BaseURL)
	cfg.API.AuthURL = forceHTTPS(cfg.API.AuthURL)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.API.ClientID = os.ExpandEnv(cfg.API.ClientID)
	cfg.API.ClientSecret = os.ExpandEnv(cfg.API.ClientSecret)
	cfg.API.BaseURL = forceHTTPS(cfg.API.BaseURL)
	cfg.API.AuthURL = forceHTTPS(cfg.API.AuthURL)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("api.client_id", cfg.API.ClientID)
	v.Set("api.client_secret", cfg.API.ClientSecret)
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.auth_url", cfg.API.AuthURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("datasets.dir", cfg.Datasets.Dir)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("export.only_active", cfg.Export.OnlyActive)
	v.Set("push.batch_size", cfg.Push.BatchSize)
	v.Set("push.max_retries", cfg.Push.MaxRetries)
	v.Set("push.retry_delay", cfg.Push.RetryDelay.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// MaskSecret hides all but the first few characters of a secret for
// display.
func MaskSecret(value string) string {
	const show = 4
	if value == "" {
		return "(not set)"
	}
	if len(value) <= show {
		return strings.Repeat("*", len(value))
	}
	return value[:show] + strings.Repeat("*", len(value)-show)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.client_id", "")
	v.SetDefault("api.client_secret", "")
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.auth_url", "")
	v.SetDefault("api.timeout", "60s")

	v.SetDefault("datasets.dir", "")

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.only_active", true)

	v.SetDefault("push.batch_size", 100)
	v.SetDefault("push.max_retries", 3)
	v.SetDefault("push.retry_delay", "2s")
}

// getUserConfigDir returns the XDG config directory for datamakelaar.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "datamakelaar")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "datamakelaar")
	}
	return filepath.Join(home, ".config", "datamakelaar")
}

// findProjectConfig searches for .datamakelaar.yaml in the current
// directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".datamakelaar.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// forceHTTPS rewrites plain-http URLs to https. Credentials must not
// travel over plaintext connections.
func forceHTTPS(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Timeout: 60 * time.Second,
		},
		Export: ExportConfig{
			Dir:        ".",
			OnlyActive: true,
		},
		Push: PushConfig{
			BatchSize:  100,
			MaxRetries: 3,
			RetryDelay: 2 * time.Second,
		},
	}
}
