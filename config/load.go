package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/analyzer/indicators"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// ANALYZER_INDICATORS_SMA_WINDOW or ANALYZER_JOURNAL_TYPE.
const EnvPrefix = "ANALYZER"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"sma":          "indicators.sma_window",
	"ema":          "indicators.ema_span",
	"vol":          "indicators.vol_window",
	"vwap":         "indicators.vwap_reset",
	"symbol":       "filter.symbol",
	"output":       "journal.output",
	"journal":      "journal.type",
	"db":           "journal.db_path",
	"metrics-file": "metrics.file",
	"log-level":    "log.level",
	"log-dev":      "log.dev",
}

// flagOutputs lists the flags that also switch on an output column when
// given explicitly.
var flagOutputs = map[string]string{
	"sma":  "output.sma",
	"ema":  "output.ema",
	"vol":  "output.volatility",
	"vwap": "output.vwap",
}

// shortEnv adds section-less aliases such as ANALYZER_SMA_WINDOW.
var shortEnv = map[string]string{
	"indicators.sma_window": EnvPrefix + "_SMA_WINDOW",
	"indicators.ema_span":   EnvPrefix + "_EMA_SPAN",
	"indicators.vol_window": EnvPrefix + "_VOL_WINDOW",
}

// Load builds the effective configuration. Sources are layered lowest to
// highest: defaults, the config file at path (optional), environment
// variables (a .env file in the working directory is loaded first when
// present), then any flags in flags that were set on the command line.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range shortEnv {
		full := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, full, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("indicators.sma_window", d.Indicators.SMAWindow)
	v.SetDefault("indicators.ema_span", d.Indicators.EMASpan)
	v.SetDefault("indicators.vol_window", d.Indicators.VolWindow)
	v.SetDefault("indicators.vwap_reset", d.Indicators.VWAPReset)

	v.SetDefault("output.sma", d.Output.SMA)
	v.SetDefault("output.ema", d.Output.EMA)
	v.SetDefault("output.volatility", d.Output.Volatility)
	v.SetDefault("output.vwap", d.Output.VWAP)

	v.SetDefault("filter.symbol", d.Filter.Symbol)

	v.SetDefault("journal.type", d.Journal.Type)
	v.SetDefault("journal.output", d.Journal.Output)
	v.SetDefault("journal.db_path", d.Journal.DBPath)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dev", d.Log.Dev)

	v.SetDefault("metrics.file", d.Metrics.File)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
		if out, ok := flagOutputs[name]; ok && f.Changed {
			v.Set(out, true)
		}
	}

	if f := flags.Lookup("all"); f != nil && f.Changed && f.Value.String() == "true" {
		for _, out := range flagOutputs {
			v.Set(out, true)
		}
	}

	if f := flags.Lookup("columns"); f != nil && f.Changed {
		cols, err := flags.GetStringSlice("columns")
		if err != nil {
			return fmt.Errorf("--columns: %w", err)
		}
		for _, c := range cols {
			k, err := indicators.ParseKind(c)
			if err != nil {
				return fmt.Errorf("--columns: %w", err)
			}
			v.Set("output."+k.String(), true)
		}
	}
	return nil
}
