// Package models - Service configuration and operational settings.
// This file defines configuration structures for all service components.
//
// Configuration Philosophy:
// - Hierarchical configuration with logical grouping (server, storage, security, etc.)
// - Environment-friendly defaults that work out of the box
// - Comprehensive validation to catch misconfigurations early
// - Support for multiple deployment scenarios (development, production, cloud)
package models

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// Email sender type constants
const (
	EmailSenderSMTP = "smtp"
	EmailSenderLog  = "log"
)

// Config is the root configuration structure containing all service settings.
type Config struct {
	App           AppConfig           `yaml:"app" json:"app"`                     // Application identity and base URL
	Server        ServerConfig        `yaml:"server" json:"server"`               // HTTP server configuration
	Storage       StorageConfig       `yaml:"storage" json:"storage"`             // Data persistence settings
	Security      SecurityConfig      `yaml:"security" json:"security"`           // Sessions, rate limiting, cron secret
	Email         EmailConfig         `yaml:"email" json:"email"`                 // Outbound email delivery
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`             // Logging and output configuration
	Metrics       MetricsConfig       `yaml:"metrics" json:"metrics"`             // Prometheus metrics
	Observability ObservabilityConfig `yaml:"observability" json:"observability"` // Tracing and service identity
}

// AppConfig carries portal-wide identity settings. BaseURL is used to build
// the verification and password reset links embedded in outbound email.
type AppConfig struct {
	Name        string `yaml:"name" json:"name"`
	BaseURL     string `yaml:"base_url" json:"base_url"`
	SiteEnabled bool   `yaml:"site_enabled" json:"site_enabled"`
}

type ServerConfig struct {
	Port         int           `yaml:"port" json:"port"`
	Host         string        `yaml:"host" json:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	TLSEnabled   bool          `yaml:"tls_enabled" json:"tls_enabled"`
	TLSCertFile  string        `yaml:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile   string        `yaml:"tls_key_file" json:"tls_key_file"`
}

type StorageConfig struct {
	Type     string         `yaml:"type" json:"type"`
	Database DatabaseConfig `yaml:"database" json:"database"`
}

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" json:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
}

type SecurityConfig struct {
	// CronSecret guards the cleanup endpoint. When empty the endpoint runs
	// unauthenticated; this is a deliberate zero-config default for local
	// use and belongs on the production deployment checklist.
	CronSecret      string          `yaml:"cron_secret" json:"cron_secret"`
	SessionLifetime time.Duration   `yaml:"session_lifetime" json:"session_lifetime"`
	BcryptCost      int             `yaml:"bcrypt_cost" json:"bcrypt_cost"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	CleanupInterval time.Duration   `yaml:"cleanup_interval" json:"cleanup_interval"`
}

// RateLimitConfig bounds the in-memory rate limit registry. Per-endpoint
// quotas live in the ratelimit package rule table; this only shapes the
// registry's memory behavior.
type RateLimitConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled"`
	MaxEntries    int           `yaml:"max_entries" json:"max_entries"`
	SweepInterval time.Duration `yaml:"sweep_interval" json:"sweep_interval"`
	MaxWindow     time.Duration `yaml:"max_window" json:"max_window"`
}

type EmailConfig struct {
	Sender string     `yaml:"sender" json:"sender"` // smtp or log
	From   string     `yaml:"from" json:"from"`
	SMTP   SMTPConfig `yaml:"smtp" json:"smtp"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Port    int    `yaml:"port" json:"port"`
}

type ObservabilityConfig struct {
	ServiceName string        `yaml:"service_name" json:"service_name"`
	Tracing     TracingConfig `yaml:"tracing" json:"tracing"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"` // stdout or otlp
	OTLPEndpoint string  `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate"`
}

// NewDefaultConfig creates a configuration with development-friendly defaults.
// Memory storage and the log email sender work with no external services;
// production deployments override storage, email and the cron secret.
func NewDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "Regportal",
			BaseURL:     "http://localhost:8080",
			SiteEnabled: true,
		},
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			TLSEnabled:   false,
		},
		Storage: StorageConfig{
			Type: StorageTypeMemory,
			Database: DatabaseConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
				ConnMaxIdleTime: 5 * time.Minute,
			},
		},
		Security: SecurityConfig{
			SessionLifetime: 30 * 24 * time.Hour,
			BcryptCost:      10,
			RateLimit: RateLimitConfig{
				Enabled:       true,
				MaxEntries:    10000,
				SweepInterval: 5 * time.Minute,
				MaxWindow:     time.Minute,
			},
			CleanupInterval: 24 * time.Hour,
		},
		Email: EmailConfig{
			Sender: EmailSenderLog,
			From:   "no-reply@localhost",
			SMTP: SMTPConfig{
				Port: 587,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9090,
		},
		Observability: ObservabilityConfig{
			ServiceName: "regportal",
			Tracing: TracingConfig{
				Enabled:    false,
				Exporter:   "stdout",
				SampleRate: 1.0,
			},
		},
	}
}

func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("invalid app config: %w", err)
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}

	if err := c.Security.Validate(); err != nil {
		return fmt.Errorf("invalid security config: %w", err)
	}

	if err := c.Email.Validate(); err != nil {
		return fmt.Errorf("invalid email config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	return nil
}

func (ac *AppConfig) Validate() error {
	if ac.Name == "" {
		return errors.New("app name cannot be empty")
	}
	if _, err := url.ParseRequestURI(ac.BaseURL); err != nil {
		return fmt.Errorf("base URL must be a valid URL: %w", err)
	}
	return nil
}

func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if sc.Host == "" {
		return errors.New("host cannot be empty")
	}

	if sc.ReadTimeout < 0 {
		return errors.New("read timeout cannot be negative")
	}

	if sc.WriteTimeout < 0 {
		return errors.New("write timeout cannot be negative")
	}

	if sc.IdleTimeout < 0 {
		return errors.New("idle timeout cannot be negative")
	}

	if sc.TLSEnabled {
		if sc.TLSCertFile == "" {
			return errors.New("TLS cert file is required when TLS is enabled")
		}
		if sc.TLSKeyFile == "" {
			return errors.New("TLS key file is required when TLS is enabled")
		}
	}

	return nil
}

func (stc *StorageConfig) Validate() error {
	switch stc.Type {
	case StorageTypeMemory:
		// Memory storage requires no additional configuration
		return nil
	case StorageTypePostgres, StorageTypeSQLite:
		if stc.Database.DSN == "" {
			return errors.New("database DSN is required for database storage")
		}
		return nil
	default:
		return fmt.Errorf("invalid storage type: %s", stc.Type)
	}
}

func (sec *SecurityConfig) Validate() error {
	if sec.SessionLifetime <= 0 {
		return errors.New("session lifetime must be positive")
	}

	if sec.BcryptCost < 4 || sec.BcryptCost > 31 {
		return errors.New("bcrypt cost must be between 4 and 31")
	}

	if sec.RateLimit.Enabled {
		if sec.RateLimit.MaxEntries <= 0 {
			return errors.New("rate limit max entries must be positive")
		}
		if sec.RateLimit.SweepInterval <= 0 {
			return errors.New("rate limit sweep interval must be positive")
		}
		if sec.RateLimit.MaxWindow <= 0 {
			return errors.New("rate limit max window must be positive")
		}
	}

	if sec.CleanupInterval < 0 {
		return errors.New("cleanup interval cannot be negative")
	}

	return nil
}

func (ec *EmailConfig) Validate() error {
	switch ec.Sender {
	case EmailSenderLog:
		return nil
	case EmailSenderSMTP:
		if ec.From == "" {
			return errors.New("from address is required for SMTP email")
		}
		if ec.SMTP.Host == "" {
			return errors.New("SMTP host is required for SMTP email")
		}
		if ec.SMTP.Port <= 0 || ec.SMTP.Port > 65535 {
			return errors.New("SMTP port must be between 1 and 65535")
		}
		return nil
	default:
		return fmt.Errorf("invalid email sender: %s", ec.Sender)
	}
}

func (lc *LoggingConfig) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	found := false
	for _, vl := range validLevels {
		if lc.Level == vl {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log level: %s", lc.Level)
	}

	validFormats := []string{"json", "text"}
	found = false
	for _, vf := range validFormats {
		if lc.Format == vf {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log format: %s", lc.Format)
	}

	validOutputs := []string{"stdout", "stderr", "file"}
	found = false
	for _, vo := range validOutputs {
		if lc.Output == vo {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log output: %s", lc.Output)
	}

	if lc.Output == "file" && lc.FilePath == "" {
		return errors.New("file path is required when output is file")
	}

	return nil
}

func (mc *MetricsConfig) Validate() error {
	if !mc.Enabled {
		return nil
	}
	if mc.Path == "" {
		return errors.New("metrics path cannot be empty")
	}
	if mc.Port <= 0 || mc.Port > 65535 {
		return errors.New("metrics port must be between 1 and 65535")
	}
	return nil
}
