// Package common provides shared utilities for Cryptofolio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Cryptofolio
type Config struct {
	Environment string           `toml:"environment"`
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Clients     ClientsConfig    `toml:"clients"`
	Catalog     CatalogConfig    `toml:"catalog"`
	Activation  ActivationConfig `toml:"activation"`
	Watch       WatchConfig      `toml:"watch"`
	Logging     LoggingConfig    `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the path for the file-based data store.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	CoinGecko CoinGeckoConfig `toml:"coingecko"`
	Telegram  TelegramConfig  `toml:"telegram"`
}

// CoinGeckoConfig holds CoinGecko API configuration
type CoinGeckoConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *CoinGeckoConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// TelegramConfig holds Telegram bot credentials. Both values may also be
// supplied via TELEGRAM_BOT_TOKEN/BOT_TOKEN and TELEGRAM_CHAT_ID/CHAT_ID,
// which take precedence over the config file.
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *TelegramConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// CatalogConfig holds coin catalog cache configuration.
type CatalogConfig struct {
	TTL string `toml:"ttl"`
}

// GetTTL parses and returns the cache time-to-live
func (c *CatalogConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// ActivationConfig holds activation engine configuration.
// StableTokens are always treated as fully activated regardless of price.
type ActivationConfig struct {
	StableTokens []string `toml:"stable_tokens"`
}

// WatchConfig controls the background re-evaluation job.
type WatchConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron spec, e.g. "@every 15m"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Storage: StorageConfig{
			Path: "data",
		},
		Clients: ClientsConfig{
			CoinGecko: CoinGeckoConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Telegram: TelegramConfig{
				BaseURL: "https://api.telegram.org",
				Timeout: "15s",
			},
		},
		Catalog: CatalogConfig{
			TTL: "24h",
		},
		Activation: ActivationConfig{
			StableTokens: []string{"USDT", "Tether", "BCC"},
		},
		Watch: WatchConfig{
			Enabled:  false,
			Schedule: "@every 15m",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CRYPTOFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("CRYPTOFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("CRYPTOFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("CRYPTOFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("CRYPTOFOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if url := os.Getenv("COINGECKO_BASE_URL"); url != "" {
		config.Clients.CoinGecko.BaseURL = url
	}

	// Credentials never ship in a build; environment wins over config file.
	for _, name := range []string{"TELEGRAM_BOT_TOKEN", "BOT_TOKEN"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.Telegram.BotToken = v
			break
		}
	}
	for _, name := range []string{"TELEGRAM_CHAT_ID", "CHAT_ID"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.Telegram.ChatID = v
			break
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
