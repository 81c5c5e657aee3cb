package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/ukombozini/lending-engine/internal/dividend"
)

// Repayment policies for amounts that would push total paid above total
// repayable: strict rejects the payment, lenient caps it at the balance.
const (
	RepaymentPolicyStrict  = "strict"
	RepaymentPolicyLenient = "lenient"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

// DSN builds the Postgres connection string, preferring DATABASE_URL.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	Timezone string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	Currency            string `mapstructure:"CURRENCY"`
	DefaultInterestRate string `mapstructure:"DEFAULT_INTEREST_RATE"`
	ShortTermMonths     int    `mapstructure:"SHORT_TERM_MONTHS"`
	LongTermMonths      int    `mapstructure:"LONG_TERM_MONTHS"`
	RepaymentPolicy     string `mapstructure:"REPAYMENT_POLICY"`
	DefaultGraceDays    int    `mapstructure:"DEFAULT_GRACE_DAYS"`
	Allocator           string `mapstructure:"DIVIDEND_ALLOCATOR"`
	CollectionMonths    string `mapstructure:"COLLECTION_MONTHS"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("CURRENCY", "KES")
	viper.SetDefault("DEFAULT_INTEREST_RATE", "10")
	viper.SetDefault("SHORT_TERM_MONTHS", 3)
	viper.SetDefault("LONG_TERM_MONTHS", 24)
	viper.SetDefault("REPAYMENT_POLICY", RepaymentPolicyStrict)
	viper.SetDefault("DEFAULT_GRACE_DAYS", 90)
	viper.SetDefault("DIVIDEND_ALLOCATOR", dividend.AllocatorSavingsWeighted)
	viper.SetDefault("COLLECTION_MONTHS", "1,3,5,7,9")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Business.ShortTermMonths <= 0 || c.Business.LongTermMonths <= 0 {
		return fmt.Errorf("loan term defaults must be greater than 0")
	}

	if c.Business.RepaymentPolicy != RepaymentPolicyStrict &&
		c.Business.RepaymentPolicy != RepaymentPolicyLenient {
		return fmt.Errorf("REPAYMENT_POLICY must be %q or %q", RepaymentPolicyStrict, RepaymentPolicyLenient)
	}

	if c.Business.DefaultGraceDays < 0 {
		return fmt.Errorf("DEFAULT_GRACE_DAYS must not be negative")
	}

	// Validate interest rate
	if rate, err := decimal.NewFromString(c.Business.DefaultInterestRate); err != nil {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be a valid decimal: %w", err)
	} else if rate.IsNegative() {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must not be negative")
	}

	if _, err := dividend.New(c.Business.Allocator); err != nil {
		return fmt.Errorf("DIVIDEND_ALLOCATOR: %w", err)
	}

	if _, err := c.GetCollectionMonths(); err != nil {
		return err
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultInterestRate returns the default interest rate as decimal
func (c *Config) GetDefaultInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultInterestRate)
	return rate
}

// DefaultTermMonths returns the configured default term for a loan type.
// Top-up and project loans follow the long-term default.
func (c *Config) DefaultTermMonths(loanType string) int {
	if loanType == "short_term" {
		return c.Business.ShortTermMonths
	}
	return c.Business.LongTermMonths
}

// GetCollectionMonths parses the comma-separated savings collection months
// (1-12) that feed dividend allocation.
func (c *Config) GetCollectionMonths() ([]time.Month, error) {
	parts := strings.Split(c.Business.CollectionMonths, ",")
	months := make([]time.Month, 0, len(parts))
	for _, p := range parts {
		var m int
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &m); err != nil || m < 1 || m > 12 {
			return nil, fmt.Errorf("COLLECTION_MONTHS must be comma-separated months 1-12, got %q", p)
		}
		months = append(months, time.Month(m))
	}
	return months, nil
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
