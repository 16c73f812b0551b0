// Package config loads client and server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultExcludedKeys are device-local settings that never leave the device
var DefaultExcludedKeys = []string{"guestMode", "sidebarCollapsed", "colorTheme"}

// ClientConfig настройки CLI клиента
type ClientConfig struct {
	ServerURL        string        `env:"DAYSYNC_SERVER"            envDefault:"http://localhost:8080"`
	DBPath           string        `env:"DAYSYNC_DB"                envDefault:"daysync.db"`
	LogLevel         string        `env:"DAYSYNC_LOG_LEVEL"         envDefault:"warn"`
	LogFile          string        `env:"DAYSYNC_LOG_FILE"`
	ExcludedKeys     []string      `env:"DAYSYNC_EXCLUDED_KEYS"     envDefault:"guestMode,sidebarCollapsed,colorTheme" envSeparator:","`
	HTTPTimeout      time.Duration `env:"DAYSYNC_HTTP_TIMEOUT"      envDefault:"30s"`
	PushRetries      uint64        `env:"DAYSYNC_PUSH_RETRIES"      envDefault:"2"`
	FlushConcurrency int           `env:"DAYSYNC_FLUSH_CONCURRENCY" envDefault:"8"`
	FlushBatchSize   int           `env:"DAYSYNC_FLUSH_BATCH_SIZE"  envDefault:"200"`
}

// ServerConfig настройки сервера документов
type ServerConfig struct {
	Addr        string        `env:"DAYSYNC_ADDR"             envDefault:":8080"`
	DBPath      string        `env:"DAYSYNC_SERVER_DB"        envDefault:"daysync-server.db"`
	JWTSecret   string        `env:"DAYSYNC_JWT_SECRET"`
	LogLevel    string        `env:"DAYSYNC_LOG_LEVEL"        envDefault:"info"`
	TokenTTL    time.Duration `env:"DAYSYNC_TOKEN_TTL"        envDefault:"720h"`
	RateLimit   int           `env:"DAYSYNC_RATE_LIMIT"       envDefault:"20"`
	RateWindow  time.Duration `env:"DAYSYNC_RATE_WINDOW"      envDefault:"1m"`
	ShutdownTTL time.Duration `env:"DAYSYNC_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadClient reads the client configuration
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые env не может проверить сам
func (c *ClientConfig) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.FlushConcurrency < 1 {
		return fmt.Errorf("flush concurrency must be positive, got %d", c.FlushConcurrency)
	}
	if c.FlushBatchSize < 1 {
		return fmt.Errorf("flush batch size must be positive, got %d", c.FlushBatchSize)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoadServer reads the server configuration
func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет конфигурацию сервера
func (c *ServerConfig) Validate() error {
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("DAYSYNC_JWT_SECRET must be at least 16 bytes")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RateLimit)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
