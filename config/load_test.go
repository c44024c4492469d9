package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/analyzer/indicators"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("sma", 20, "")
	fs.Int("ema", 50, "")
	fs.Int("vol", 30, "")
	fs.String("vwap", VWAPDaily, "")
	fs.Bool("all", false, "")
	fs.StringSlice("columns", nil, "")
	fs.String("symbol", "", "")
	fs.String("output", "-", "")
	fs.String("journal", JournalCSV, "")
	fs.String("db", "./analyzer.sqlite", "")
	fs.String("log-level", "info", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadUnchangedFlagsKeepDefaults(t *testing.T) {
	cfg, err := Load("", testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Empty(t, cfg.Kinds())
}

func TestLoadFile(t *testing.T) {
	path := writeYAML(t, `
indicators:
  sma_window: 5
  ema_span: 9
output:
  ema: true
filter:
  symbol: MSFT
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Indicators.SMAWindow)
	assert.Equal(t, 9, cfg.Indicators.EMASpan)
	assert.Equal(t, 30, cfg.Indicators.VolWindow)
	assert.True(t, cfg.Output.EMA)
	assert.False(t, cfg.Output.SMA)
	assert.Equal(t, "MSFT", cfg.Filter.Symbol)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeYAML(t, "indicators:\n  sma_window: 5\n  vol_window: 8\n")
	t.Setenv("ANALYZER_INDICATORS_SMA_WINDOW", "11")
	t.Setenv("ANALYZER_VOL_WINDOW", "4")
	t.Setenv("ANALYZER_JOURNAL_TYPE", "both")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.Indicators.SMAWindow)
	assert.Equal(t, 4, cfg.Indicators.VolWindow)
	assert.Equal(t, JournalBoth, cfg.Journal.Type)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ANALYZER_INDICATORS_SMA_WINDOW", "11")

	cfg, err := Load("", testFlags(t, "--sma=3", "--symbol=X"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Indicators.SMAWindow)
	assert.Equal(t, "X", cfg.Filter.Symbol)
	assert.True(t, cfg.Output.SMA)
	assert.False(t, cfg.Output.EMA)
	assert.False(t, cfg.Output.Volatility)
	assert.False(t, cfg.Output.VWAP)
}

func TestLoadParameterFlagsEnableColumns(t *testing.T) {
	cfg, err := Load("", testFlags(t, "--ema=10", "--vol=5", "--vwap=daily"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Indicators.EMASpan)
	assert.Equal(t, 5, cfg.Indicators.VolWindow)
	assert.Equal(t, OutputConfig{EMA: true, Volatility: true, VWAP: true}, cfg.Output)
}

func TestLoadAllFlag(t *testing.T) {
	cfg, err := Load("", testFlags(t, "--all"))
	require.NoError(t, err)
	assert.Equal(t, OutputConfig{SMA: true, EMA: true, Volatility: true, VWAP: true}, cfg.Output)
	assert.Equal(t, 20, cfg.Indicators.SMAWindow)
}

func TestLoadRejectsBadFlagValues(t *testing.T) {
	_, err := Load("", testFlags(t, "--vwap=weekly"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vwap_reset")

	_, err = Load("", testFlags(t, "--sma=0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sma_window")
}

func TestLoadColumnsFlag(t *testing.T) {
	cfg, err := Load("", testFlags(t, "--columns=VWAP, sma"))
	require.NoError(t, err)
	assert.Equal(t, OutputConfig{SMA: true, VWAP: true}, cfg.Output)
	assert.Equal(t, 20, cfg.Indicators.SMAWindow)

	_, err = Load("", testFlags(t, "--columns=sma,rsi"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, indicators.ErrUnknownKind))
}
