// Package config provides configuration management for the convergence pick
// engine, including the versioned scoring profiles consumed identically by
// the live engine and the backtest.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Ratings   RatingsConfig   `mapstructure:"ratings" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// RatingsConfig represents the external rating provider configuration
type RatingsConfig struct {
	APIURL            string  `mapstructure:"api_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
}

// EngineConfig represents live pick generation configuration
type EngineConfig struct {
	Sports                []string `mapstructure:"sports" validate:"required,min=1,dive,sport"`
	BatchSize             int      `mapstructure:"batch_size" validate:"required,gt=0"`
	StaleLineThresholdMin int      `mapstructure:"stale_line_threshold_minutes" validate:"required,gt=0"`
}

// BacktestConfig represents walk-forward backtest configuration
type BacktestConfig struct {
	WarmupDays   int    `mapstructure:"warmup_days" validate:"gte=0"`
	MinDayVolume int    `mapstructure:"min_day_volume" validate:"gte=0"`
	OutputPath   string `mapstructure:"output_path"`
	// VigPrice is the assumed two-way American price for ROI math.
	VigPrice int `mapstructure:"vig_price" validate:"required,lt=0"`
}

// SchedulerConfig represents cron scheduling for daily generation and grading
type SchedulerConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	GenerationCron      string `mapstructure:"generation_cron"`
	GradingIntervalMins int    `mapstructure:"grading_interval_minutes" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScoringConfig carries the profile version plus YAML overrides applied on
// top of the built-in defaults.
type ScoringConfig struct {
	ProfileVersion string            `mapstructure:"profile_version"`
	Overrides      []ProfileOverride `mapstructure:"overrides"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
