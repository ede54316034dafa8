package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name, auto-detecting the file type
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfigWithNameAndType loads configuration with explicit name and type specification
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from a .env file using the provided base name
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig layers defaults, an optional config file and environment variables,
// then validates the result.
func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Printf("INFO: No config file '%s' found, relying on environment variables and defaults.\n", configName)
		} else {
			fmt.Printf("WARNING: Error reading config file (%s): %v\n", v.ConfigFileUsed(), err)
		}
	} else {
		fmt.Printf("INFO: Config loaded from file: %s\n", v.ConfigFileUsed())
	}

	v.AutomaticEnv()

	config := fromViper(v)

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Sheets: SheetsConfig{
			BaseURL:           v.GetString("SHEETS_BASE_URL"),
			AccountsID:        v.GetString("SHEETS_ACCOUNTS_ID"),
			DepositsID:        v.GetString("SHEETS_DEPOSITS_ID"),
			WithdrawalsID:     v.GetString("SHEETS_WITHDRAWALS_ID"),
			MaintenanceID:     v.GetString("SHEETS_MAINTENANCE_ID"),
			SecurityPaymentID: v.GetString("SHEETS_SECURITY_PAYMENT_ID"),
			Timeout:           v.GetDuration("SHEETS_TIMEOUT"),
		},
		SheetDB: SheetDBConfig{
			BaseURL:         v.GetString("SHEETDB_BASE_URL"),
			DepositStore:    v.GetString("SHEETDB_DEPOSIT_STORE"),
			WithdrawalStore: v.GetString("SHEETDB_WITHDRAWAL_STORE"),
			Timeout:         v.GetDuration("SHEETDB_TIMEOUT"),
		},
		Supervisor: SupervisorConfig{
			StatusInterval:      v.GetDuration("SUPERVISOR_STATUS_INTERVAL"),
			MaintenanceInterval: v.GetDuration("SUPERVISOR_MAINTENANCE_INTERVAL"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("SESSION_TTL"),
		},
		Kafka: KafkaConfig{
			Enabled:           v.GetBool("KAFKA_ENABLED"),
			Brokers:           v.GetString("KAFKA_BROKERS"),
			TransitionTopic:   v.GetString("KAFKA_TRANSITION_TOPIC"),
			DLQTopic:          v.GetString("KAFKA_DLQ_TOPIC"),
			NumPartitions:     v.GetInt("KAFKA_NUM_PARTITIONS"),
			ReplicationFactor: v.GetInt("KAFKA_REPLICATION_FACTOR"),
			WriteTimeout:      v.GetDuration("KAFKA_WRITE_TIMEOUT"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
	}
}

// setDefaults initializes configuration with default values.
// These values are used when no configuration file or environment variables are present.
func setDefaults(v *viper.Viper) {
	// HTTP Server defaults
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)

	// Read source: published spreadsheet tables
	v.SetDefault("SHEETS_BASE_URL", "https://docs.google.com/spreadsheets/d")
	v.SetDefault("SHEETS_ACCOUNTS_ID", "1ceJEL9omxk8btcFyaXTkLte7qSy6nVuPOtW8O3OI3F8")
	v.SetDefault("SHEETS_DEPOSITS_ID", "1UPT_4aeGEcibpMrilgkNknlaF-vwT1YLVwaUsGj9mKc")
	v.SetDefault("SHEETS_WITHDRAWALS_ID", "1cpiLFItR6XLTookeZT5-9QJqcgJv28pQ3lMaNc2AlaQ")
	v.SetDefault("SHEETS_MAINTENANCE_ID", "1JKYH84tKeBDZhrNX2YBQVVvYq4CJny-rIdyOk4RY2_4")
	v.SetDefault("SHEETS_SECURITY_PAYMENT_ID", "1xhW1Qb8wWCJPalnIPiCmiugZPo05HUEuBDPTsi_D5g8")
	v.SetDefault("SHEETS_TIMEOUT", 10*time.Second)

	// Write store
	v.SetDefault("SHEETDB_BASE_URL", "https://sheetdb.io/api/v1")
	v.SetDefault("SHEETDB_DEPOSIT_STORE", "1e4k53su959b1")
	v.SetDefault("SHEETDB_WITHDRAWAL_STORE", "k76oqu1eo6sxg")
	v.SetDefault("SHEETDB_TIMEOUT", 10*time.Second)

	// Supervisor polls both concerns every 15 seconds
	v.SetDefault("SUPERVISOR_STATUS_INTERVAL", 15*time.Second)
	v.SetDefault("SUPERVISOR_MAINTENANCE_INTERVAL", 15*time.Second)

	v.SetDefault("SESSION_TTL", 12*time.Hour)

	// Kafka defaults - disabled unless a broker is configured
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TRANSITION_TOPIC", "transaction_transitions")
	v.SetDefault("KAFKA_DLQ_TOPIC", "transaction_transitions_dlq")
	v.SetDefault("KAFKA_NUM_PARTITIONS", 1)
	v.SetDefault("KAFKA_REPLICATION_FACTOR", 1)
	v.SetDefault("KAFKA_WRITE_TIMEOUT", 10*time.Second)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "agent-dashboard")

	v.SetDefault("WORKER_POOL_SIZE", 10)
}
