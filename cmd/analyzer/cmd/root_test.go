package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustyeddy/analyzer/journal"
	"github.com/rustyeddy/analyzer/pkg/id"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trades = `timestamp,symbol,price,volume
2024-01-02T09:30:00,X,100,10
2024-01-02T09:31:00,X,110,20
2024-01-02T09:32:00,Y,50,5
2024-01-02T09:33:00,X,99,10
`

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestAnalyzeStdinAllColumns(t *testing.T) {
	out, err := execute(t, trades, "--sma=2", "--ema=3", "--vol=2", "--all", "--log-level=error", "-")
	require.NoError(t, err)

	want := strings.Join([]string{
		"timestamp,symbol,price,volume,sma,ema,volatility,vwap",
		"2024-01-02T09:30:00,X,100.000000,10,0.000000,0.000000,0.000000,0.000000",
		"2024-01-02T09:31:00,X,110.000000,20,110.000000,110.000000,0.000000,110.000000",
		"2024-01-02T09:32:00,Y,50.000000,5,0.000000,0.000000,0.000000,0.000000",
		"2024-01-02T09:33:00,X,99.000000,10,104.500000,104.500000,0.141421,106.333333",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestAnalyzeColumnSelection(t *testing.T) {
	in := writeFile(t, "trades.csv", trades)

	out, err := execute(t, "", "--sma=2", "--log-level=error", in)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "timestamp,symbol,price,volume,sma", lines[0])
	assert.Equal(t, "2024-01-02T09:33:00,X,99.000000,10,104.500000", lines[4])

	out, err = execute(t, "", "--log-level=error", in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "timestamp,symbol,price,volume\n"))
}

func TestAnalyzeColumnsFlag(t *testing.T) {
	out, err := execute(t, trades, "--columns=vwap,sma", "--sma=2", "--log-level=error", "-")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "timestamp,symbol,price,volume,sma,vwap", lines[0])
	assert.Equal(t, "2024-01-02T09:33:00,X,99.000000,10,104.500000,106.333333", lines[4])

	_, err = execute(t, trades, "--columns=rsi", "--log-level=error", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized indicator kind")
}

func TestAnalyzeSymbolFilterToFile(t *testing.T) {
	in := writeFile(t, "trades.csv", trades)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	out, err := execute(t, "", "--symbol=Y", "--vwap=daily", "--output", outPath, "--log-level=error", in)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,symbol,price,volume,vwap\n2024-01-02T09:32:00,Y,50.000000,5,0.000000\n", string(data))
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := execute(t, "")
	assert.Error(t, err, "missing file argument")

	_, err = execute(t, "", "--log-level=error", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")

	_, err = execute(t, trades, "--vwap=weekly", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vwap_reset")

	_, err = execute(t, trades, "--journal=kafka", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal.type")
}

func TestAnalyzeConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "analyzer.yaml", "indicators:\n  sma_window: 2\noutput:\n  sma: true\n")

	out, err := execute(t, trades, "--config", cfgPath, "--log-level=error", "-")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "timestamp,symbol,price,volume,sma", lines[0])
	assert.Equal(t, "2024-01-02T09:33:00,X,99.000000,10,104.500000", lines[4])
}

func TestAnalyzeSQLiteJournalAndQuery(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.sqlite")
	csvPath := filepath.Join(dir, "out.csv")

	_, err := execute(t, trades, "--journal=both", "--db", dbPath, "--output", csvPath, "--sma=2", "--log-level=error", "-")
	require.NoError(t, err)

	db, err := journal.NewSQLite(dbPath)
	require.NoError(t, err)
	runs, err := db.ListRuns()
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.Len(t, runs, 1)
	assert.Equal(t, "stdin", runs[0].Source)
	created, err := id.Time(runs[0].RunID)
	require.NoError(t, err)
	assert.True(t, created.Equal(runs[0].Created), "created %v, id time %v", runs[0].Created, created)
	assert.Equal(t, 2, runs[0].SMAWindow)

	out, err := execute(t, "", "journal", "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].RunID)

	out, err = execute(t, "", "journal", "rows", runs[0].RunID, "--db", dbPath, "--symbol", "X")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "timestamp,symbol,price,volume,sma,ema,volatility,vwap", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "2024-01-02T09:33:00,X,99.000000,10,104.500000,"))

	_, err = execute(t, "", "journal", "rows", "nope", "--db", dbPath)
	assert.Error(t, err)
}

func TestAnalyzeMetricsFile(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "analyzer.prom")

	_, err := execute(t, trades+"bad,row\n", "--metrics-file", metricsPath, "--log-level=error", "-")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "analyzer_rows_total 4")
	assert.Contains(t, string(data), `analyzer_rejected_records_total{reason="fields"} 1`)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.yaml")

	out, err := execute(t, "", "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "", "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "sma=20 ema=50 vol=30 vwap=daily")

	bad := writeFile(t, "bad.yaml", "journal:\n  type: kafka\n")
	_, err = execute(t, "", "config", "validate", "-f", bad)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "analyzer version "+version)
}
