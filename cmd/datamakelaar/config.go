package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/woonstad/datamakelaar/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify datamakelaar configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/datamakelaar/config.yaml
Project-specific overrides can be placed in .datamakelaar.yaml
Credentials can also come from LUXS_CLIENT_ID and LUXS_CLIENT_SECRET.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("api.client_id: %s\n", config.MaskSecret(cfg.API.ClientID))
	fmt.Printf("api.client_secret: %s\n", config.MaskSecret(cfg.API.ClientSecret))
	fmt.Printf("api.base_url: %s\n", cfg.API.BaseURL)
	fmt.Printf("api.auth_url: %s\n", cfg.API.AuthURL)
	fmt.Printf("api.timeout: %s\n", cfg.API.Timeout)
	fmt.Printf("datasets.dir: %s\n", orBuiltin(cfg.Datasets.Dir))
	fmt.Printf("export.dir: %s\n", cfg.Export.Dir)
	fmt.Printf("export.only_active: %t\n", cfg.Export.OnlyActive)
	fmt.Printf("push.batch_size: %d\n", cfg.Push.BatchSize)
	fmt.Printf("push.max_retries: %d\n", cfg.Push.MaxRetries)
	fmt.Printf("push.retry_delay: %s\n", cfg.Push.RetryDelay)
}

func orBuiltin(dir string) string {
	if dir == "" {
		return "(built-in datasets)"
	}
	return dir
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "api.client_id":
		return config.MaskSecret(cfg.API.ClientID), nil
	case "api.client_secret":
		return config.MaskSecret(cfg.API.ClientSecret), nil
	case "api.base_url":
		return cfg.API.BaseURL, nil
	case "api.auth_url":
		return cfg.API.AuthURL, nil
	case "api.timeout":
		return cfg.API.Timeout.String(), nil
	case "datasets.dir":
		return cfg.Datasets.Dir, nil
	case "export.dir":
		return cfg.Export.Dir, nil
	case "export.only_active":
		return strconv.FormatBool(cfg.Export.OnlyActive), nil
	case "push.batch_size":
		return strconv.Itoa(cfg.Push.BatchSize), nil
	case "push.max_retries":
		return strconv.Itoa(cfg.Push.MaxRetries), nil
	case "push.retry_delay":
		return cfg.Push.RetryDelay.String(), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "api.client_id":
		cfg.API.ClientID = value
	case "api.client_secret":
		cfg.API.ClientSecret = value
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.auth_url":
		cfg.API.AuthURL = value
	case "api.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for api.timeout: %w", err)
		}
		cfg.API.Timeout = d
	case "datasets.dir":
		cfg.Datasets.Dir = value
	case "export.dir":
		cfg.Export.Dir = value
	case "export.only_active":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for export.only_active: %w", err)
		}
		cfg.Export.OnlyActive = b
	case "push.batch_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for push.batch_size: %w", err)
		}
		cfg.Push.BatchSize = n
	case "push.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for push.max_retries: %w", err)
		}
		cfg.Push.MaxRetries = n
	case "push.retry_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for push.retry_delay: %w", err)
		}
		cfg.Push.RetryDelay = d
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
