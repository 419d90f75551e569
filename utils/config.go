package utils

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

var (
	EnvPath string = "."
)

type Config struct {
	Env                string  `mapstructure:"ENV"`
	ServerPort         int     `mapstructure:"SERVER_PORT"`
	SigningKey         string  `mapstructure:"SIGNING_KEY"`
	DBUsername         string  `mapstructure:"DB_USERNAME"`
	DBPassword         string  `mapstructure:"DB_PASSWORD"`
	DBHost             string  `mapstructure:"DB_HOST"`
	DBPort             string  `mapstructure:"DB_PORT"`
	DBDriver           string  `mapstructure:"DB_DRIVER"`
	DBName             string  `mapstructure:"DB_NAME"`
	SSLMode            string  `mapstructure:"SSLMODE"`
	RedisHost          string  `mapstructure:"REDIS_HOST"`
	RedisPort          string  `mapstructure:"REDIS_PORT"`
	RedisPassword      string  `mapstructure:"REDIS_PASSWORD"`
	Papertrail         string  `mapstructure:"PAPERTRAIL"`
	PapertrailAppName  string  `mapstructure:"PAPERTRAIL_APP_NAME"`
	AWSRegion          string  `mapstructure:"AWS_REGION"`
	AWSAccessKeyID     string  `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretAccessKey string  `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	NotificationMail   string  `mapstructure:"NOTIFICATION_SOURCE_MAIL"`
	AdminEmail         string  `mapstructure:"ADMIN_EMAIL"`
	CommissionRate     float64 `mapstructure:"COMMISSION_RATE"`
	EscrowHoldDays     int     `mapstructure:"ESCROW_HOLD_DAYS"`
	EscrowFastHoldHrs  int     `mapstructure:"ESCROW_FAST_HOLD_HOURS"`
	MinWithdrawal      int64   `mapstructure:"MIN_WITHDRAWAL"`
	DailyWithdrawalCap int64   `mapstructure:"DAILY_WITHDRAWAL_CAP"`
	SweepIntervalMins  int     `mapstructure:"SWEEP_INTERVAL_MINUTES"`
	ReconcileIntMins   int     `mapstructure:"RECONCILE_INTERVAL_MINUTES"`
}

func LoadConfig(path string) (*Config, error) {
	// Validate that the path is not empty
	if path == "" {
		path = "."
	}

	// Create a new Viper instance to avoid global state
	v := viper.New()

	// Disable environment variable prefix
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	// Configure config file
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Log the error, but don't fail entirely
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	// Business defaults, each overridable from the environment
	v.SetDefault("COMMISSION_RATE", 0.05)
	v.SetDefault("ESCROW_HOLD_DAYS", 7)
	v.SetDefault("ESCROW_FAST_HOLD_HOURS", 48)
	v.SetDefault("MIN_WITHDRAWAL", 1000)
	v.SetDefault("SWEEP_INTERVAL_MINUTES", 5)
	v.SetDefault("RECONCILE_INTERVAL_MINUTES", 60)

	// Create config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Additional security: Validate critical configurations
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	// Add validation for critical configurations
	if config.ServerPort == 0 {
		return fmt.Errorf("server port must be specified")
	}

	if config.DBUsername == "" || config.DBPassword == "" {
		return fmt.Errorf("database credentials must be provided")
	}

	if config.CommissionRate < 0 || config.CommissionRate >= 1 {
		return fmt.Errorf("commission rate must be within [0, 1)")
	}

	if config.EscrowHoldDays <= 0 || config.EscrowFastHoldHrs <= 0 {
		return fmt.Errorf("escrow hold windows must be positive")
	}

	return nil
}

// Optional: Masking sensitive information for logging
func (c *Config) Redact() Config {
	redacted := *c
	redacted.SigningKey = "****"
	redacted.DBPassword = "****"
	redacted.RedisPassword = "****"
	redacted.AWSSecretAccessKey = "****"
	return redacted
}

func LoadCustomConfig(path string, val interface{}) error {
	// Validate that the path is not empty
	if path == "" {
		path = "."
	}

	// Create a new Viper instance to avoid global state
	v := viper.New()

	// Allow overriding config via environment variables
	v.SetEnvPrefix("UNIHUB")
	v.AutomaticEnv()

	// Configure config file
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Log the error, but don't fail entirely
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	if err := v.Unmarshal(&val); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}

	return nil
}
