// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for the HTTP server, the spreadsheet
// read source, the write store, the session supervisor and event publishing.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a major subsystem's configuration and is validated during
// application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Sheets      SheetsConfig
	SheetDB     SheetDBConfig
	Supervisor  SupervisorConfig
	Session     SessionConfig
	Kafka       KafkaConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// SheetsConfig contains the read-only spreadsheet source configuration.
// Each table is published as CSV under BaseURL/{id}/gviz/tq?tqx=out:csv.
type SheetsConfig struct {
	BaseURL           string
	AccountsID        string
	DepositsID        string
	WithdrawalsID     string
	MaintenanceID     string
	SecurityPaymentID string
	Timeout           time.Duration
}

// SheetDBConfig contains the writable record store configuration
type SheetDBConfig struct {
	BaseURL         string
	DepositStore    string // Store identifier for deposit rows
	WithdrawalStore string // Store identifier for withdrawal rows
	Timeout         time.Duration
}

// SupervisorConfig contains the session freshness polling configuration
type SupervisorConfig struct {
	StatusInterval      time.Duration // Account status re-verification interval
	MaintenanceInterval time.Duration // Maintenance notice refresh interval
}

// SessionConfig contains agent session settings
type SessionConfig struct {
	TTL time.Duration // Idle lifetime of a session
}

// KafkaConfig contains Kafka configuration for transition events
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	TransitionTopic   string
	DLQTopic          string // Topic for partial write failures
	NumPartitions     int    // Number of partitions for topics
	ReplicationFactor int    // Replication factor for topics
	WriteTimeout      time.Duration
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Sheets config
	if c.Sheets.BaseURL == "" {
		validationErrors = append(validationErrors, "SHEETS_BASE_URL is required")
	}
	if c.Sheets.AccountsID == "" {
		validationErrors = append(validationErrors, "SHEETS_ACCOUNTS_ID is required")
	}
	if c.Sheets.DepositsID == "" {
		validationErrors = append(validationErrors, "SHEETS_DEPOSITS_ID is required")
	}
	if c.Sheets.WithdrawalsID == "" {
		validationErrors = append(validationErrors, "SHEETS_WITHDRAWALS_ID is required")
	}
	if c.Sheets.MaintenanceID == "" {
		validationErrors = append(validationErrors, "SHEETS_MAINTENANCE_ID is required")
	}
	if c.Sheets.SecurityPaymentID == "" {
		validationErrors = append(validationErrors, "SHEETS_SECURITY_PAYMENT_ID is required")
	}
	if c.Sheets.Timeout <= 0 {
		validationErrors = append(validationErrors, "SHEETS_TIMEOUT must be greater than 0")
	}

	// Validate SheetDB config
	if c.SheetDB.BaseURL == "" {
		validationErrors = append(validationErrors, "SHEETDB_BASE_URL is required")
	}
	if c.SheetDB.DepositStore == "" {
		validationErrors = append(validationErrors, "SHEETDB_DEPOSIT_STORE is required")
	}
	if c.SheetDB.WithdrawalStore == "" {
		validationErrors = append(validationErrors, "SHEETDB_WITHDRAWAL_STORE is required")
	}
	if c.SheetDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "SHEETDB_TIMEOUT must be greater than 0")
	}

	// Validate Supervisor config
	if c.Supervisor.StatusInterval <= 0 {
		validationErrors = append(validationErrors, "SUPERVISOR_STATUS_INTERVAL must be greater than 0")
	}
	if c.Supervisor.MaintenanceInterval <= 0 {
		validationErrors = append(validationErrors, "SUPERVISOR_MAINTENANCE_INTERVAL must be greater than 0")
	}

	if c.Session.TTL <= 0 {
		validationErrors = append(validationErrors, "SESSION_TTL must be greater than 0")
	}

	// Kafka is optional; only validate when enabled
	if c.Kafka.Enabled {
		if c.Kafka.Brokers == "" {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
		}
		if c.Kafka.TransitionTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_TRANSITION_TOPIC is required")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
