package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string   `yaml:"port" env:"SERVER_PORT"`
		Mode        string   `yaml:"mode" env:"SERVER_MODE"`
		CORSOrigins []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Storage struct {
		Driver       string `yaml:"driver" env:"STORAGE_DRIVER"`
		Path         string `yaml:"path" env:"STORAGE_PATH"`
		SeedDemoData bool   `yaml:"seed_demo_data" env:"STORAGE_SEED_DEMO_DATA"`
	} `yaml:"storage"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		Enabled bool          `yaml:"enabled" env:"AUTH_ENABLED"`
		Users   []StaffMember `yaml:"users"`
	} `yaml:"auth"`

	Simulation struct {
		Enabled        bool     `yaml:"enabled" env:"SIMULATION_ENABLED"`
		FailureRate    float64  `yaml:"failure_rate" env:"SIMULATION_FAILURE_RATE"`
		FailOperations []string `yaml:"fail_operations" env:"SIMULATION_FAIL_OPERATIONS"`
		ListLatency    string   `yaml:"list_latency" env:"SIMULATION_LIST_LATENCY"`
		GetLatency     string   `yaml:"get_latency" env:"SIMULATION_GET_LATENCY"`
		WriteLatency   string   `yaml:"write_latency" env:"SIMULATION_WRITE_LATENCY"`
		DeleteLatency  string   `yaml:"delete_latency" env:"SIMULATION_DELETE_LATENCY"`
	} `yaml:"simulation"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Email struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"email"`
}

// StaffMember is a console account declared in the config file
type StaffMember struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

// LoadConfig loads configuration from a file and environment variables.
// A missing file is not an error; defaults and environment apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}
	setDefaults(config)
	return config
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.CORSOrigins = []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"http://localhost:3000",
	}

	config.Storage.Driver = DriverBolt
	config.Storage.Path = "data/tilab.db"
	config.Storage.SeedDemoData = true

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "tilab"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "8h"
	config.JWT.Issuer = "tilab"

	// Latencies mirror the delays the console's mock services used
	config.Simulation.FailureRate = 0.1
	config.Simulation.FailOperations = []string{"component.create"}
	config.Simulation.ListLatency = "500ms"
	config.Simulation.GetLatency = "300ms"
	config.Simulation.WriteLatency = "1s"
	config.Simulation.DeleteLatency = "800ms"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Email.Port = 587
	config.Email.FromName = "TI-LAB"
	config.Email.FromEmail = "no-reply@tilab.local"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Storage.Driver {
	case DriverBolt:
		if strings.TrimSpace(config.Storage.Path) == "" {
			return fmt.Errorf("storage path is required for the bolt driver")
		}
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database conn_max_lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Auth.Enabled {
		if config.JWT.Secret == "" {
			return fmt.Errorf("JWT secret is required when auth is enabled")
		}
		if len(config.Auth.Users) == 0 {
			return fmt.Errorf("at least one auth user is required when auth is enabled")
		}
		for _, u := range config.Auth.Users {
			if u.Email == "" || u.PasswordHash == "" {
				return fmt.Errorf("auth users need an email and a password_hash")
			}
		}
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if config.Simulation.FailureRate < 0 || config.Simulation.FailureRate > 1 {
		return fmt.Errorf("simulation failure_rate must be between 0 and 1")
	}
	for name, v := range map[string]string{
		"list_latency":   config.Simulation.ListLatency,
		"get_latency":    config.Simulation.GetLatency,
		"write_latency":  config.Simulation.WriteLatency,
		"delete_latency": config.Simulation.DeleteLatency,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid simulation %s: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
