package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"openfx/internal/model"
)

// Slider bounds from the dashboard controls. Values outside are clamped.
const (
	MinLookback = 1
	MaxLookback = 30
	MinInterval = 10
	MaxInterval = 120
)

// Config holds all application configuration.
type Config struct {
	Pairs    []string `yaml:"pairs"`    // compact symbols, e.g. EURUSD
	Lookback int      `yaml:"lookback"` // minutes back for the percent change
	Interval int      `yaml:"interval"` // seconds between poll cycles

	DataSource struct {
		Provider string `yaml:"provider"` // "yahoo" or "mock"
		BaseURL  string `yaml:"base_url"` // override for the yahoo endpoint
	} `yaml:"data_source"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Web struct {
		Port string `yaml:"port"`
	} `yaml:"web"`

	History struct {
		MaxPoints int `yaml:"max_points"` // per-pair series bound
		MaxAlerts int `yaml:"max_alerts"` // spike ring capacity
	} `yaml:"history"`

	Environment string `yaml:"environment"` // "development" or "production"
	Proxy       string `yaml:"proxy"`
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
	if v := os.Getenv("OPENFX_PAIRS"); v != "" {
		cfg.Pairs = splitList(v)
	}
	if v := os.Getenv("OPENFX_LOOKBACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Lookback = n
		}
	}
	if v := os.Getenv("OPENFX_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Interval = n
		}
	}
	if v := os.Getenv("OPENFX_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("OPENFX_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Web.Port = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

// The top six most traded pairs, in dashboard order.
var defaultPairs = []string{"EURUSD", "USDJPY", "GBPUSD", "USDCHF", "USDCAD", "AUDUSD"}

func (c *Config) applyDefaults() {
	if len(c.Pairs) == 0 {
		c.Pairs = append([]string(nil), defaultPairs...)
	}
	if c.Lookback == 0 {
		c.Lookback = 5
	}
	if c.Interval == 0 {
		c.Interval = 60
	}
	if c.Lookback < MinLookback {
		c.Lookback = MinLookback
	}
	if c.Lookback > MaxLookback {
		c.Lookback = MaxLookback
	}
	if c.Interval < MinInterval {
		c.Interval = MinInterval
	}
	if c.Interval > MaxInterval {
		c.Interval = MaxInterval
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.Web.Port == "" {
		c.Web.Port = "8080"
	}
	if c.History.MaxPoints == 0 {
		c.History.MaxPoints = 1440 // one session of 1m bars
	}
	if c.History.MaxAlerts == 0 {
		c.History.MaxAlerts = 256
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Pairs) == 0 {
		return fmt.Errorf("at least one pair is required")
	}
	for _, p := range c.Pairs {
		if _, err := model.ParsePair(p); err != nil {
			return fmt.Errorf("pairs: %w", err)
		}
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or mock, got %q", c.DataSource.Provider)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// ParsedPairs returns the configured pairs as model values.
func (c *Config) ParsedPairs() ([]model.CurrencyPair, error) {
	pairs := make([]model.CurrencyPair, 0, len(c.Pairs))
	for _, p := range c.Pairs {
		cp, err := model.ParsePair(p)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, cp)
	}
	return pairs, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
