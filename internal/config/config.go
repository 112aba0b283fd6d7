package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Platform holds the account-wide parameters shared by reference
// across every strategy instance. Immutable after Load.
type Platform struct {
	APIKey    string `json:"-"`
	APISecret string `json:"-"`
	Category  string `json:"category"`
	Testnet   bool   `json:"testnet"`
	Demo      bool   `json:"demo"`

	SlippageCap    float64 `json:"slippage_cap"`
	MinNotionalUSD float64 `json:"min_notional_usd"`
	Leverage       int     `json:"leverage"`
}

// StrategyBlock configures one strategy variant. A block with more
// than one symbol produces one instance per symbol for per-instrument
// variants; pair and triangle variants consume the symbol list whole.
type StrategyBlock struct {
	Enabled      bool               `json:"enabled"`
	Variant      string             `json:"variant"`
	Symbols      []string           `json:"symbols"`
	Params       map[string]float64 `json:"params"`
	TickInterval Duration           `json:"tick_interval"`
}

// Param returns a named numeric parameter or its default.
func (b StrategyBlock) Param(name string, def float64) float64 {
	if v, ok := b.Params[name]; ok {
		return v
	}
	return def
}

// Monitoring holds observability endpoints.
type Monitoring struct {
	MetricsPort int `json:"metrics_port"`
	HealthPort  int `json:"health_port"`
}

// Config is the full engine configuration: platform parameters plus a
// mapping from strategy key to its block.
type Config struct {
	Platform   Platform                 `json:"platform"`
	Strategies map[string]StrategyBlock `json:"strategies"`
	Monitoring Monitoring               `json:"monitoring"`
	LogDir     string                   `json:"log_dir"`
	JournalXLSX string                  `json:"journal_xlsx"`
}

// Load reads the JSON config file and overlays credentials from the
// environment (BYBIT_API_KEY / BYBIT_API_SECRET, typically via .env).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Platform.APIKey = os.Getenv("BYBIT_API_KEY")
	cfg.Platform.APISecret = os.Getenv("BYBIT_API_SECRET")

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Platform.Category == "" {
		c.Platform.Category = "linear"
	}
	if c.Platform.MinNotionalUSD == 0 {
		c.Platform.MinNotionalUSD = 10.0
	}
	if c.Platform.Leverage == 0 {
		c.Platform.Leverage = 10
	}
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
	if c.Monitoring.MetricsPort == 0 {
		c.Monitoring.MetricsPort = 9090
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 9091
	}
	for key, block := range c.Strategies {
		if block.TickInterval.Duration == 0 {
			block.TickInterval = Duration{30 * time.Second}
			c.Strategies[key] = block
		}
	}
}

// Validate checks the configuration before any instance is built.
// Errors here are fatal; a misconfigured strategy is never scheduled.
func (c *Config) Validate() error {
	if c.Platform.APIKey == "" || c.Platform.APISecret == "" {
		return fmt.Errorf("missing API credentials: set BYBIT_API_KEY and BYBIT_API_SECRET")
	}
	if c.Platform.MinNotionalUSD < 0 {
		return fmt.Errorf("min_notional_usd must not be negative")
	}

	enabled := 0
	for key, block := range c.Strategies {
		if !block.Enabled {
			continue
		}
		enabled++
		if block.Variant == "" {
			return fmt.Errorf("strategy %q: variant is required", key)
		}
		if len(block.Symbols) == 0 {
			return fmt.Errorf("strategy %q: at least one symbol is required", key)
		}
	}
	if enabled == 0 {
		return fmt.Errorf("no strategies enabled")
	}
	return nil
}

// EnabledStrategies returns the enabled blocks keyed by strategy name.
func (c *Config) EnabledStrategies() map[string]StrategyBlock {
	out := make(map[string]StrategyBlock)
	for key, block := range c.Strategies {
		if block.Enabled {
			out[key] = block
		}
	}
	return out
}

// Duration wraps time.Duration with JSON string support ("30s", "1m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
