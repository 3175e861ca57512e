package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Watchlist struct {
		Path string `yaml:"path"`
	} `yaml:"watchlist"`
	Scan struct {
		Benchmark   string `yaml:"benchmark"`
		HistoryDays int    `yaml:"history_days"`
		Workers     int    `yaml:"workers"`
	} `yaml:"scan"`
	DataSource struct {
		Provider    string `yaml:"provider"` // "yahoo" or "mock"
		CacheMaxAge string `yaml:"cache_max_age"`
	} `yaml:"data_source"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Reports struct {
		Dir string `yaml:"dir"`
	} `yaml:"reports"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	OpenAI struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"openai"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "console" or "json"
		File   string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is loaded first when
// present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

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
	if v := os.Getenv("WATCHLIST_PATH"); v != "" {
		cfg.Watchlist.Path = v
	}
	if v := os.Getenv("SCAN_BENCHMARK"); v != "" {
		cfg.Scan.Benchmark = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Watchlist.Path == "" {
		cfg.Watchlist.Path = "watchlist.txt"
	}
	if cfg.Scan.Benchmark == "" {
		cfg.Scan.Benchmark = "DAX"
	}
	if cfg.Scan.HistoryDays == 0 {
		cfg.Scan.HistoryDays = 300
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.CacheMaxAge == "" {
		cfg.DataSource.CacheMaxAge = "24h"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/screener.db"
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = "reports"
	}
	if cfg.Schedule.ScanCron == "" {
		// Weekdays 18:30, after European close.
		cfg.Schedule.ScanCron = "0 30 18 * * 1-5"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	return cfg, nil
}

// Validate checks the fields every command needs. Telegram and OpenAI
// settings are checked by the commands that use them.
func (c *Config) Validate() error {
	if c.Watchlist.Path == "" {
		return fmt.Errorf("watchlist.path is required")
	}
	if c.Scan.Benchmark == "" {
		return fmt.Errorf("scan.benchmark is required")
	}
	if c.Scan.HistoryDays < 200 {
		return fmt.Errorf("scan.history_days must be at least 200")
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("scan.workers must be positive")
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or mock, got %q", c.DataSource.Provider)
	}
	return nil
}
