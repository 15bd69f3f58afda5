// Package config provides configuration management for the finrisk engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Risk       RiskConfig       `mapstructure:"risk" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Health     HealthConfig     `mapstructure:"health" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" validate:"required"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// RiskConfig holds the scoring policy: factor weights and level thresholds
type RiskConfig struct {
	Weights       RiskWeightsConfig `mapstructure:"weights" validate:"required"`
	LowThreshold  float64           `mapstructure:"low_threshold" validate:"gt=0,lt=10"`
	HighThreshold float64           `mapstructure:"high_threshold" validate:"gt=0,lt=10"`
}

// RiskWeightsConfig holds the weight of each risk factor
type RiskWeightsConfig struct {
	Liquidity  float64 `mapstructure:"liquidity" validate:"gte=0,lte=1"`
	Credit     float64 `mapstructure:"credit" validate:"gte=0,lte=1"`
	Market     float64 `mapstructure:"market" validate:"gte=0,lte=1"`
	Inflation  float64 `mapstructure:"inflation" validate:"gte=0,lte=1"`
	Protection float64 `mapstructure:"protection" validate:"gte=0,lte=1"`
}

// Sum returns the total of all factor weights
func (w RiskWeightsConfig) Sum() float64 {
	return w.Liquidity + w.Credit + w.Market + w.Inflation + w.Protection
}

// SimulationConfig bounds and tunes Monte Carlo runs
type SimulationConfig struct {
	DefaultIterations int     `mapstructure:"default_iterations" validate:"required,gt=0"`
	MaxIterations     int     `mapstructure:"max_iterations" validate:"required,gt=0"`
	BatchSize         int     `mapstructure:"batch_size" validate:"required,gt=0"`
	Workers           int     `mapstructure:"workers" validate:"gte=0"`
	RiskFreeRate      float64 `mapstructure:"risk_free_rate" validate:"gte=0,lt=1"`
}

// CacheConfig configures the seeded simulation result cache
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"required,gt=0"`
}

// TTL returns the cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig configures the health check server
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// SchedulerConfig configures the periodic reassessment sweep
type SchedulerConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	ReassessCron    string `mapstructure:"reassess_cron" validate:"required,cron"`
	StaleAfterHours int    `mapstructure:"stale_after_hours" validate:"required,gt=0"`
	BatchSize       int    `mapstructure:"batch_size" validate:"required,gt=0"`
}

// StaleAfter returns the assessment age that triggers a reassessment
func (s SchedulerConfig) StaleAfter() time.Duration {
	return time.Duration(s.StaleAfterHours) * time.Hour
}

// SecretsConfig configures the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SecretID string `mapstructure:"secret_id" validate:"required_if=Enabled true"`
	Region   string `mapstructure:"region" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		c.Database.MaxConnections,
	)
}
