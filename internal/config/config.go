package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Symbol     string `yaml:"symbol"`
		WindowDays int    `yaml:"window_days"`
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshHour int `yaml:"refresh_hour"`
	} `yaml:"schedule"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
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
	if v := os.Getenv("INDEX_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.WindowDays = n
		}
	}
	if v := os.Getenv("REFRESH_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.RefreshHour = n
		}
	}
	if v := os.Getenv("DATA_API_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "NDX100"
	}
	if cfg.DataSource.WindowDays == 0 {
		cfg.DataSource.WindowDays = 100
	}
	if cfg.Schedule.RefreshHour == 0 {
		cfg.Schedule.RefreshHour = 5
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}

	return cfg, nil
}

// Validate checks that all fields are within range.
func (c *Config) Validate() error {
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	if c.DataSource.WindowDays <= 0 {
		return fmt.Errorf("data_source.window_days must be positive")
	}
	if c.Schedule.RefreshHour < 0 || c.Schedule.RefreshHour > 23 {
		return fmt.Errorf("schedule.refresh_hour must be between 0 and 23")
	}
	return nil
}
