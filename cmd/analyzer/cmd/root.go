package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/analyzer/analyzer"
	"github.com/rustyeddy/analyzer/config"
	"github.com/rustyeddy/analyzer/journal"
	"github.com/rustyeddy/analyzer/metrics"
	"github.com/rustyeddy/analyzer/pkg/id"
	"github.com/rustyeddy/analyzer/pkg/logger"
	"github.com/rustyeddy/analyzer/replay"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "analyzer [flags] FILE|-",
	Short: "Rolling per-symbol indicators for trade streams",
	Long: `Analyzer reads trades as CSV rows of timestamp,symbol,price,volume and
writes each trade back annotated with its symbol's rolling indicators:

  sma         simple moving average over the last --sma prices
  ema         exponential moving average with span --ema
  volatility  sample standard deviation of the last --vol returns
  vwap        volume-weighted average price, reset daily

Setting --sma, --ema, --vol or --vwap also enables that column; --all
enables every column and --columns enables a chosen list. Use - as FILE
to read from stdin. Files ending in .xz or .lzma are decompressed.

Examples:
  analyzer --sma=20 --ema=50 trades.csv
  analyzer --all --symbol=AAPL --output annotated.csv trades.csv
  analyzer --columns=ema,vwap trades.csv.xz
  cat trades.csv | analyzer --vwap=daily --journal both --db runs.sqlite -`,
	Args:         cobra.ExactArgs(1),
	RunE:         runAnalyze,
	SilenceUsage: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	d := config.Default()
	f := rootCmd.Flags()

	f.StringVarP(&cfgFile, "config", "c", "", "config file (yaml or json)")
	f.Int("sma", d.Indicators.SMAWindow, "SMA window; enables the sma column")
	f.Int("ema", d.Indicators.EMASpan, "EMA span; enables the ema column")
	f.Int("vol", d.Indicators.VolWindow, "volatility window; enables the volatility column")
	f.String("vwap", d.Indicators.VWAPReset, "VWAP reset period (only 'daily'); enables the vwap column")
	f.Bool("all", false, "enable all indicator columns")
	f.StringSlice("columns", nil, "indicator columns to enable, e.g. sma,vwap")
	f.String("symbol", "", "only process trades for this symbol")
	f.StringP("output", "o", d.Journal.Output, "CSV output path, - for stdout")
	f.String("journal", d.Journal.Type, "journal type: csv, sqlite or both")
	f.String("db", d.Journal.DBPath, "SQLite journal path")
	f.String("metrics-file", "", "write Prometheus metrics in text format to this path")
	f.String("log-level", d.Log.Level, "log level: debug, info, warn, error")
	f.Bool("log-dev", false, "human-readable development logging")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Dev: cfg.Log.Dev})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	in, source, err := openInput(cmd, args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	j, err := openJournal(cmd, cfg, source, log)
	if err != nil {
		return err
	}

	m := metrics.New()
	a, err := analyzer.New(analyzer.Options{
		Params:  cfg.Params(),
		Symbol:  cfg.Filter.Symbol,
		Journal: j,
		Metrics: m,
		Logger:  log,
	})
	if err != nil {
		j.Close()
		return err
	}

	_, runErr := a.Run(ctx, in)
	if err := j.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close journal: %w", err)
	}

	if cfg.Metrics.File != "" {
		if err := m.WriteTextfile(cfg.Metrics.File); err != nil {
			log.Warn("metrics not written", zap.Error(err))
		}
	}
	return runErr
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}
	rc, err := replay.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open input: %w", err)
	}
	return rc, path, nil
}

func openJournal(cmd *cobra.Command, cfg *config.Config, source string, log *zap.Logger) (journal.Journal, error) {
	var js journal.Multi

	if cfg.Journal.Type != config.JournalSQLite {
		var cj *journal.CSVJournal
		var err error
		if cfg.Journal.Output == "-" {
			cj, err = journal.NewCSV(cmd.OutOrStdout(), cfg.Kinds())
		} else {
			cj, err = journal.NewCSVFile(cfg.Journal.Output, cfg.Kinds())
		}
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		js = append(js, cj)
	}

	if cfg.Journal.Type != config.JournalCSV {
		db, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			js.Close()
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		runID := id.New()
		created, err := id.Time(runID)
		if err != nil {
			db.Close()
			js.Close()
			return nil, err
		}
		run := journal.RunInfo{
			RunID:     runID,
			Created:   created,
			Source:    source,
			SMAWindow: cfg.Indicators.SMAWindow,
			EMASpan:   cfg.Indicators.EMASpan,
			VolWindow: cfg.Indicators.VolWindow,
		}
		if err := db.BeginRun(run); err != nil {
			db.Close()
			js.Close()
			return nil, err
		}
		log.Info("journaling run", zap.String("run_id", run.RunID), zap.String("db", cfg.Journal.DBPath))
		js = append(js, db)
	}

	if len(js) == 1 {
		return js[0], nil
	}
	return js, nil
}
