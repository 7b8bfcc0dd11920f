// Package config loads service configuration from defaults, an optional YAML
// file, and REGPORTAL_* environment variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"regportal/internal/models"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*models.Config, error) {
	// Start with default configuration
	config := models.NewDefaultConfig()

	// Load from file if provided and exists
	if configPath != "" {
		if err := loadFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Override with environment variables
	loadFromEnvironment(config)

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(config *models.Config, filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// loadFromEnvironment loads configuration from environment variables
func loadFromEnvironment(config *models.Config) {
	// App configuration
	if name := os.Getenv("REGPORTAL_APP_NAME"); name != "" {
		config.App.Name = name
	}

	if baseURL := os.Getenv("REGPORTAL_BASE_URL"); baseURL != "" {
		config.App.BaseURL = baseURL
	}

	if enabled := os.Getenv("REGPORTAL_SITE_ENABLED"); enabled != "" {
		config.App.SiteEnabled = strings.ToLower(enabled) != "false"
	}

	// Server configuration
	if port := os.Getenv("REGPORTAL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("REGPORTAL_HOST"); host != "" {
		config.Server.Host = host
	}

	if timeout := os.Getenv("REGPORTAL_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.ReadTimeout = d
		}
	}

	if timeout := os.Getenv("REGPORTAL_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.WriteTimeout = d
		}
	}

	if timeout := os.Getenv("REGPORTAL_IDLE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.IdleTimeout = d
		}
	}

	if tls := os.Getenv("REGPORTAL_TLS_ENABLED"); tls != "" {
		config.Server.TLSEnabled = strings.ToLower(tls) == "true"
	}

	if certFile := os.Getenv("REGPORTAL_TLS_CERT_FILE"); certFile != "" {
		config.Server.TLSCertFile = certFile
	}

	if keyFile := os.Getenv("REGPORTAL_TLS_KEY_FILE"); keyFile != "" {
		config.Server.TLSKeyFile = keyFile
	}

	// Storage configuration
	if storageType := os.Getenv("REGPORTAL_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}

	if dsn := os.Getenv("REGPORTAL_DATABASE_DSN"); dsn != "" {
		config.Storage.Database.DSN = dsn
	}

	if maxOpen := os.Getenv("REGPORTAL_DATABASE_MAX_OPEN_CONNS"); maxOpen != "" {
		if conns, err := strconv.Atoi(maxOpen); err == nil {
			config.Storage.Database.MaxOpenConns = conns
		}
	}

	if maxIdle := os.Getenv("REGPORTAL_DATABASE_MAX_IDLE_CONNS"); maxIdle != "" {
		if conns, err := strconv.Atoi(maxIdle); err == nil {
			config.Storage.Database.MaxIdleConns = conns
		}
	}

	// Security configuration
	if secret := os.Getenv("REGPORTAL_CRON_SECRET"); secret != "" {
		config.Security.CronSecret = secret
	}

	if lifetime := os.Getenv("REGPORTAL_SESSION_LIFETIME"); lifetime != "" {
		if d, err := time.ParseDuration(lifetime); err == nil {
			config.Security.SessionLifetime = d
		}
	}

	if cost := os.Getenv("REGPORTAL_BCRYPT_COST"); cost != "" {
		if c, err := strconv.Atoi(cost); err == nil {
			config.Security.BcryptCost = c
		}
	}

	if enabled := os.Getenv("REGPORTAL_RATE_LIMIT_ENABLED"); enabled != "" {
		config.Security.RateLimit.Enabled = strings.ToLower(enabled) == "true"
	}

	if maxEntries := os.Getenv("REGPORTAL_RATE_LIMIT_MAX_ENTRIES"); maxEntries != "" {
		if n, err := strconv.Atoi(maxEntries); err == nil {
			config.Security.RateLimit.MaxEntries = n
		}
	}

	if interval := os.Getenv("REGPORTAL_RATE_LIMIT_SWEEP_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.Security.RateLimit.SweepInterval = d
		}
	}

	if interval := os.Getenv("REGPORTAL_CLEANUP_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.Security.CleanupInterval = d
		}
	}

	// Email configuration
	if sender := os.Getenv("REGPORTAL_EMAIL_SENDER"); sender != "" {
		config.Email.Sender = sender
	}

	if from := os.Getenv("REGPORTAL_EMAIL_FROM"); from != "" {
		config.Email.From = from
	}

	if host := os.Getenv("REGPORTAL_SMTP_HOST"); host != "" {
		config.Email.SMTP.Host = host
	}

	if port := os.Getenv("REGPORTAL_SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Email.SMTP.Port = p
		}
	}

	if user := os.Getenv("REGPORTAL_SMTP_USERNAME"); user != "" {
		config.Email.SMTP.Username = user
	}

	if pass := os.Getenv("REGPORTAL_SMTP_PASSWORD"); pass != "" {
		config.Email.SMTP.Password = pass
	}

	// Logging configuration
	if level := os.Getenv("REGPORTAL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if format := os.Getenv("REGPORTAL_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if output := os.Getenv("REGPORTAL_LOG_OUTPUT"); output != "" {
		config.Logging.Output = output
	}

	if filePath := os.Getenv("REGPORTAL_LOG_FILE_PATH"); filePath != "" {
		config.Logging.FilePath = filePath
	}

	// Metrics configuration
	if metrics := os.Getenv("REGPORTAL_METRICS_ENABLED"); metrics != "" {
		config.Metrics.Enabled = strings.ToLower(metrics) == "true"
	}

	if path := os.Getenv("REGPORTAL_METRICS_PATH"); path != "" {
		config.Metrics.Path = path
	}

	if port := os.Getenv("REGPORTAL_METRICS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Metrics.Port = p
		}
	}

	// Observability configuration
	if name := os.Getenv("REGPORTAL_SERVICE_NAME"); name != "" {
		config.Observability.ServiceName = name
	}

	if tracing := os.Getenv("REGPORTAL_TRACING_ENABLED"); tracing != "" {
		config.Observability.Tracing.Enabled = strings.ToLower(tracing) == "true"
	}

	if exporter := os.Getenv("REGPORTAL_TRACING_EXPORTER"); exporter != "" {
		config.Observability.Tracing.Exporter = exporter
	}

	if endpoint := os.Getenv("REGPORTAL_OTLP_ENDPOINT"); endpoint != "" {
		config.Observability.Tracing.OTLPEndpoint = endpoint
	}
}
