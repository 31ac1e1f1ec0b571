package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"iuran-rt-backend/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Billing   BillingConfig   `yaml:"billing"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Export    ExportConfig    `yaml:"export"`
	Storage   StorageConfig   `yaml:"storage"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BillingConfig contains dues billing policy
type BillingConfig struct {
	// DoubleVerification is "reject" or "restamp"
	DoubleVerification      string `yaml:"double_verification"`
	TopDebtors              int    `yaml:"top_debtors"`
	GenerationLockNamespace int32  `yaml:"generation_lock_namespace"`
}

// SchedulerConfig contains cron expressions (with seconds) for scheduled jobs
type SchedulerConfig struct {
	GenerateMonthlyInvoices string `yaml:"generate_monthly_invoices"`
	TakeArrearsSnapshots    string `yaml:"take_arrears_snapshots"`
}

// ExportConfig contains spreadsheet export settings
type ExportConfig struct {
	SheetName string `yaml:"sheet_name"`
}

// StorageConfig contains payment proof upload settings
type StorageConfig struct {
	UploadDir         string `yaml:"upload_dir"`
	MaxProofSizeBytes int64  `yaml:"max_proof_size_bytes"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes, then applies environment overrides and defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Billing
	if val := os.Getenv("STORAGE_UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}
	if val := os.Getenv("BILLING_DOUBLE_VERIFICATION"); val != "" {
		c.Billing.DoubleVerification = strings.ToLower(val)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = 30
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 720
	}

	// Billing defaults
	if c.Billing.DoubleVerification == "" {
		c.Billing.DoubleVerification = string(domain.VerificationPolicyReject)
	}
	if !domain.VerificationPolicy(c.Billing.DoubleVerification).IsValid() {
		return fmt.Errorf("billing.double_verification must be reject or restamp, got %q", c.Billing.DoubleVerification)
	}
	if c.Billing.TopDebtors <= 0 {
		c.Billing.TopDebtors = 5
	}
	if c.Billing.GenerationLockNamespace == 0 {
		c.Billing.GenerationLockNamespace = 7301
	}

	// Scheduler defaults
	if c.Scheduler.GenerateMonthlyInvoices == "" {
		c.Scheduler.GenerateMonthlyInvoices = "0 5 0 1 * *" // 1st of month at 00:05 UTC
	}
	if c.Scheduler.TakeArrearsSnapshots == "" {
		c.Scheduler.TakeArrearsSnapshots = "0 30 23 28-31 * *" // Last days of month at 23:30 UTC, job skips all but the last
	}

	if c.Export.SheetName == "" {
		c.Export.SheetName = "Cash Flow"
	}

	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./uploads"
	}
	if c.Storage.MaxProofSizeBytes <= 0 {
		c.Storage.MaxProofSizeBytes = 2 << 20
	}

	return nil
}

// VerificationPolicy returns the configured double verification policy
func (c *Config) VerificationPolicy() domain.VerificationPolicy {
	return domain.VerificationPolicy(c.Billing.DoubleVerification)
}

// AccessTokenTTL returns the lifetime of issued access tokens
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
