package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo | coingecko | cryptocompare | mock
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Pipeline struct {
		Tickers           []string `yaml:"tickers"`
		Period            string   `yaml:"period"`
		Interval          string   `yaml:"interval"`
		MaxAttempts       int      `yaml:"max_attempts"`
		RetryDelaySeconds int      `yaml:"retry_delay_seconds"`
		PauseSeconds      int      `yaml:"ticker_pause_seconds"`
	} `yaml:"pipeline"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Schedule struct {
		Cron string `yaml:"cron"` // empty means run once and exit
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Pipeline.Tickers = splitList(v)
	}
	if v := os.Getenv("PERIOD"); v != "" {
		cfg.Pipeline.Period = v
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		cfg.Pipeline.Interval = v
	}
	if v := os.Getenv("MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.MaxAttempts = n
		}
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("RUN_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if len(cfg.Pipeline.Tickers) == 0 {
		cfg.Pipeline.Tickers = []string{"BTC-USD", "ETH-USD"}
	}
	if cfg.Pipeline.Period == "" {
		cfg.Pipeline.Period = "7d"
	}
	if cfg.Pipeline.Interval == "" {
		cfg.Pipeline.Interval = "1h"
	}
	if cfg.Pipeline.MaxAttempts == 0 {
		cfg.Pipeline.MaxAttempts = 3
	}
	if cfg.Pipeline.RetryDelaySeconds == 0 {
		cfg.Pipeline.RetryDelaySeconds = 5
	}
	if cfg.Pipeline.PauseSeconds == 0 {
		cfg.Pipeline.PauseSeconds = 3
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "coingecko", "cryptocompare", "mock":
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if len(c.Pipeline.Tickers) == 0 {
		return fmt.Errorf("pipeline.tickers must not be empty")
	}
	for _, t := range c.Pipeline.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("pipeline.tickers contains an empty entry")
		}
	}
	if c.Pipeline.MaxAttempts <= 0 {
		return fmt.Errorf("pipeline.max_attempts must be positive")
	}
	if c.Pipeline.RetryDelaySeconds < 0 {
		return fmt.Errorf("pipeline.retry_delay_seconds must not be negative")
	}
	if c.Pipeline.PauseSeconds < 0 {
		return fmt.Errorf("pipeline.ticker_pause_seconds must not be negative")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	return nil
}

// RetryDelay returns the retry base delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Pipeline.RetryDelaySeconds) * time.Second
}

// TickerPause returns the inter-ticker pause as a duration.
func (c *Config) TickerPause() time.Duration {
	return time.Duration(c.Pipeline.PauseSeconds) * time.Second
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
