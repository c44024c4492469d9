package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/analyzer/indicators"
	"github.com/rustyeddy/analyzer/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Journal types.
const (
	JournalCSV    = "csv"
	JournalSQLite = "sqlite"
	JournalBoth   = "both"
)

// VWAPDaily is the only supported VWAP reset period.
const VWAPDaily = "daily"

// Config represents the complete analyzer configuration
type Config struct {
	Indicators IndicatorsConfig `json:"indicators" yaml:"indicators" mapstructure:"indicators"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
	Filter     FilterConfig     `json:"filter" yaml:"filter" mapstructure:"filter"`
	Journal    JournalConfig    `json:"journal" yaml:"journal" mapstructure:"journal"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// IndicatorsConfig holds the parameters applied to every symbol's series
type IndicatorsConfig struct {
	SMAWindow int    `json:"sma_window" yaml:"sma_window" mapstructure:"sma_window"`
	EMASpan   int    `json:"ema_span" yaml:"ema_span" mapstructure:"ema_span"`
	VolWindow int    `json:"vol_window" yaml:"vol_window" mapstructure:"vol_window"`
	VWAPReset string `json:"vwap_reset" yaml:"vwap_reset" mapstructure:"vwap_reset"`
}

// OutputConfig selects the indicator columns written to CSV. All four
// indicators are computed either way.
type OutputConfig struct {
	SMA        bool `json:"sma" yaml:"sma" mapstructure:"sma"`
	EMA        bool `json:"ema" yaml:"ema" mapstructure:"ema"`
	Volatility bool `json:"volatility" yaml:"volatility" mapstructure:"volatility"`
	VWAP       bool `json:"vwap" yaml:"vwap" mapstructure:"vwap"`
}

// FilterConfig restricts processing to one symbol when Symbol is set
type FilterConfig struct {
	Symbol string `json:"symbol" yaml:"symbol" mapstructure:"symbol"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type" mapstructure:"type"`       // "csv", "sqlite" or "both"
	Output string `json:"output" yaml:"output" mapstructure:"output"` // CSV path, "-" for stdout
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	Dev   bool   `json:"dev" yaml:"dev" mapstructure:"dev"`
}

type MetricsConfig struct {
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Indicators: IndicatorsConfig{
			SMAWindow: 20,
			EMASpan:   50,
			VolWindow: 30,
			VWAPReset: VWAPDaily,
		},
		Journal: JournalConfig{
			Type:   JournalCSV,
			Output: "-",
			DBPath: "./analyzer.sqlite",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Indicators.SMAWindow <= 0 {
		return fmt.Errorf("indicators.sma_window must be positive")
	}
	if c.Indicators.EMASpan <= 0 {
		return fmt.Errorf("indicators.ema_span must be positive")
	}
	if c.Indicators.VolWindow <= 0 {
		return fmt.Errorf("indicators.vol_window must be positive")
	}
	if c.Indicators.VWAPReset != VWAPDaily {
		return fmt.Errorf("indicators.vwap_reset only supports %q, got %q", VWAPDaily, c.Indicators.VWAPReset)
	}

	switch c.Journal.Type {
	case JournalCSV, JournalSQLite, JournalBoth:
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'both'")
	}
	if c.Journal.Type != JournalSQLite && c.Journal.Output == "" {
		return fmt.Errorf("journal.output required for CSV output (use - for stdout)")
	}
	if c.Journal.Type != JournalCSV && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required for SQLite journal")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Params converts the indicator settings for indicators.NewRegistry.
func (c *Config) Params() indicators.Params {
	return indicators.Params{
		SMAWindow: c.Indicators.SMAWindow,
		EMAAlpha:  indicators.Alpha(c.Indicators.EMASpan),
		VolWindow: c.Indicators.VolWindow,
	}
}

// Kinds returns the indicator columns selected for output.
func (c *Config) Kinds() []indicators.Kind {
	var out []indicators.Kind
	if c.Output.SMA {
		out = append(out, indicators.SMA)
	}
	if c.Output.EMA {
		out = append(out, indicators.EMA)
	}
	if c.Output.Volatility {
		out = append(out, indicators.Volatility)
	}
	if c.Output.VWAP {
		out = append(out, indicators.VWAP)
	}
	return out
}

// LoadFromFile loads configuration from a file (YAML or JSON) on top of
// the defaults, without environment or flag overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
