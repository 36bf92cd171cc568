// Package config loads service configuration from a YAML file with
// environment variable overrides. A .env file, when present, is loaded
// before the overrides are applied.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultServiceName     = "moderation"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8082
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "moderation"
	defaultDBSSLMode       = "disable"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultIntakeRPS       = 100
	defaultIntakeBurst     = 200
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds all configuration for the moderation service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Intake   IntakeConfig   `yaml:"intake"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `env:"SERVICE_NAME"     yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"MODERATION_PORT"  yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"        yaml:"debug"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// IntakeConfig holds instance-level intake backpressure settings. This is
// the in-process limiter guarding the whole service, separate from the
// persisted per-identifier limits.
type IntakeConfig struct {
	RPS   int `env:"INTAKE_RPS"   yaml:"rps"`
	Burst int `env:"INTAKE_BURST" yaml:"burst"`
}

// Load reads configuration from path, applying .env files and environment
// overrides. A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	// .env files are optional; only a malformed file is fatal.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Service.Name, "SERVICE_NAME")
	overrideInt(&cfg.Service.Port, "MODERATION_PORT")
	overrideBool(&cfg.Service.Debug, "APP_DEBUG")
	overrideString(&cfg.Database.Host, "POSTGRES_HOST")
	overrideInt(&cfg.Database.Port, "POSTGRES_PORT")
	overrideString(&cfg.Database.User, "POSTGRES_USER")
	overrideString(&cfg.Database.Password, "POSTGRES_PASSWORD")
	overrideString(&cfg.Database.Database, "POSTGRES_DB")
	overrideString(&cfg.Database.SSLMode, "POSTGRES_SSLMODE")
	overrideString(&cfg.Logging.Level, "LOG_LEVEL")
	overrideString(&cfg.Logging.Format, "LOG_FORMAT")
	overrideInt(&cfg.Intake.RPS, "INTAKE_RPS")
	overrideInt(&cfg.Intake.Burst, "INTAKE_BURST")
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func overrideBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setLoggingDefaults(&cfg.Logging)
	setIntakeDefaults(&cfg.Intake)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeout
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setIntakeDefaults(i *IntakeConfig) {
	if i.RPS == 0 {
		i.RPS = defaultIntakeRPS
	}
	if i.Burst == 0 {
		i.Burst = defaultIntakeBurst
	}
}
