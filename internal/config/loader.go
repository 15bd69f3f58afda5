// Package config provides configuration management for the finrisk engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. FINRISK_APP_LOG_LEVEL
	EnvPrefix = "FINRISK"

	defaultConfigPath = "config/config.yaml"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded reads a YAML file into v after expanding ${VAR} placeholders
func readExpanded(v *viper.Viper, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	if err := readExpanded(v, configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. A missing file is not an error.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if err := readExpanded(v, configPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers a default for every key so environment overrides
// resolve even when the file omits the key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "finrisk")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "finrisk")
	v.SetDefault("database.user", "finrisk")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 5)

	v.SetDefault("risk.weights.liquidity", 0.25)
	v.SetDefault("risk.weights.credit", 0.20)
	v.SetDefault("risk.weights.market", 0.25)
	v.SetDefault("risk.weights.inflation", 0.15)
	v.SetDefault("risk.weights.protection", 0.15)
	v.SetDefault("risk.low_threshold", 3.5)
	v.SetDefault("risk.high_threshold", 6.5)

	v.SetDefault("simulation.default_iterations", 10000)
	v.SetDefault("simulation.max_iterations", 100000)
	v.SetDefault("simulation.batch_size", 1000)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.risk_free_rate", 0.02)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", 3600)
	v.SetDefault("cache.max_size", 500)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.port", 8080)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.reassess_cron", "0 2 * * *")
	v.SetDefault("scheduler.stale_after_hours", 720)
	v.SetDefault("scheduler.batch_size", 100)

	v.SetDefault("secrets.enabled", false)
	v.SetDefault("secrets.secret_id", "")
	v.SetDefault("secrets.region", "")
}

// ReloadFromEnv reloads the configuration from FINRISK_CONFIG_PATH when set
func ReloadFromEnv(cfg *Config) error {
	envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH")
	if envPath == "" {
		return nil
	}
	newCfg, err := LoadWithDefaults(envPath)
	if err != nil {
		return err
	}
	*cfg = *newCfg
	return nil
}
