package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"productos/pkg/logger"

	"github.com/spf13/viper"
)

// Storage drivers accepted in DATABASE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the resolved application configuration.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	RabbitMQURL    string // empty disables events
	APIBaseURL     string
	APITimeout     time.Duration // zero means no timeout
	PageSize       int
	Log            logger.Config
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("DATABASE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "file:productos.db?cache=shared")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("API_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("API_TIMEOUT", "0s")
	v.SetDefault("PAGE_SIZE", 10)

	logDefaults := logger.DefaultConfig()
	v.SetDefault("LOG_LEVEL", logDefaults.Level)
	v.SetDefault("LOG_FORMAT", logDefaults.Format)
	v.SetDefault("LOG_OUTPUT", logDefaults.Output)
	v.SetDefault("LOG_FILE", logDefaults.FilePath)
}

// Load reads defaults, the optional config file and the environment into a Config.
// The file is CONFIG_FILE when set, otherwise productos.{yaml,json,toml} in the
// working directory if present.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("productos")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = v.GetString("LOG_LEVEL")
	logCfg.Format = v.GetString("LOG_FORMAT")
	logCfg.Output = v.GetString("LOG_OUTPUT")
	logCfg.FilePath = v.GetString("LOG_FILE")

	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		APIBaseURL:     v.GetString("API_BASE_URL"),
		APITimeout:     v.GetDuration("API_TIMEOUT"),
		PageSize:       v.GetInt("PAGE_SIZE"),
		Log:            logCfg,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("API_TIMEOUT must not be negative, got %s", c.APITimeout)
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL must not be empty")
	}
	return nil
}
