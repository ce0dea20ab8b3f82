package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TokenSeed describes one catalog entry loaded from configuration.
type TokenSeed struct {
	Address  string `yaml:"address"`
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Decimals int    `yaml:"decimals"`
}

// Config holds all application settings. After LoadConfig, sensitive or
// deployment-specific values may be overridden via environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Feed struct {
		WSURL     string `yaml:"ws_url"`
		InboxSize int    `yaml:"inbox_size"`
	} `yaml:"feed"`

	Market struct {
		BaseTokenAddress  string `yaml:"base_token_address"`
		QuoteTokenAddress string `yaml:"quote_token_address"`
	} `yaml:"market"`

	Tokens []TokenSeed `yaml:"tokens"`

	Storage struct {
		Path string `yaml:"path"` // empty = per-user default location
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Feed.WSURL == "" || (!hasPrefix(c.Feed.WSURL, "ws://") && !hasPrefix(c.Feed.WSURL, "wss://")) {
		return fmt.Errorf("invalid feed WS URL: %s", c.Feed.WSURL)
	}
	if c.Feed.InboxSize <= 0 {
		return fmt.Errorf("inbox size must be positive")
	}

	if c.Market.BaseTokenAddress == "" || c.Market.QuoteTokenAddress == "" {
		return fmt.Errorf("market base and quote token addresses are required")
	}
	if c.Market.BaseTokenAddress == c.Market.QuoteTokenAddress {
		return fmt.Errorf("market base and quote tokens must differ")
	}

	if len(c.Tokens) == 0 {
		return fmt.Errorf("at least one token seed is required")
	}
	for _, t := range c.Tokens {
		if t.Address == "" {
			return fmt.Errorf("token seed %q has no address", t.Symbol)
		}
		if t.Decimals < 0 {
			return fmt.Errorf("token %s has negative decimals", t.Symbol)
		}
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment overrides when present.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("ORDERBOOK_WS_URL"); url != "" {
		cfg.Feed.WSURL = url
	}
	if path := os.Getenv("ORDERBOOK_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if level := os.Getenv("ORDERBOOK_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
