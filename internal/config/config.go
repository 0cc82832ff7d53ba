package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL   string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
	} `yaml:"server"`

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
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		PasswordMinLength int `yaml:"password_min_length" env:"AUTH_PASSWORD_MIN_LENGTH"`
	} `yaml:"auth"`

	Applications struct {
		// UniquePerType rejects a second application to the same
		// university with the same application type for one student.
		UniquePerType bool `yaml:"unique_per_type" env:"APPLICATIONS_UNIQUE_PER_TYPE"`
	} `yaml:"applications"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from an optional .env file, a YAML file
// and environment variables, in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

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

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "applytrack"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "applytrack.app"

	config.Auth.PasswordMinLength = 6
	config.Applications.UniquePerType = true

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Auth.PasswordMinLength < 1 {
		return fmt.Errorf("password minimum length must be positive")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT refresh token expiration format: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns the postgres connection string
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
