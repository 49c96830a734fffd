// Package config loads blog API configuration from defaults, an optional file and the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   *Server
	Database *Database
	Logger   *Logger
	Seed     *Seed
}

// Server holds HTTP server configuration.
type Server struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Address returns the server address in host:port format.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Database holds store connection strings.
type Database struct {
	URL     string
	TestURL string
}

// Logger holds logging configuration.
type Logger struct {
	Level  string
	Format string
}

// Seed holds fixture generation settings.
type Seed struct {
	Count int
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.host":       "HOST",
	"server.port":       "PORT",
	"database.url":      "DATABASE_URL",
	"database.test_url": "TEST_DATABASE_URL",
	"logger.level":      "LOG_LEVEL",
	"logger.format":     "LOG_FORMAT",
	"seed.count":        "SEED_COUNT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.url", "badger://data/badger")
	v.SetDefault("database.test_url", "memory://")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("seed.count", 10)
}

// LoadConfig builds a Config. configPath may be empty, in which case only defaults and
// environment variables are used.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server:   getServerConfig(v),
		Database: getDatabaseConfig(v),
		Logger:   getLoggerConfig(v),
		Seed:     &Seed{Count: v.GetInt("seed.count")},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:            v.GetString("server.host"),
		Port:            v.GetInt("server.port"),
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
	}
}

func getDatabaseConfig(v *viper.Viper) *Database {
	return &Database{
		URL:     v.GetString("database.url"),
		TestURL: v.GetString("database.test_url"),
	}
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:  v.GetString("logger.level"),
		Format: v.GetString("logger.format"),
	}
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.Seed.Count < 0 {
		return fmt.Errorf("seed count must not be negative")
	}
	return nil
}
