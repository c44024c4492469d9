// Package analyzer drives trades from a CSV stream through the per-symbol
// indicator registry and into a journal.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/analyzer/indicators"
	"github.com/rustyeddy/analyzer/journal"
	"github.com/rustyeddy/analyzer/market"
	"github.com/rustyeddy/analyzer/metrics"
	"github.com/rustyeddy/analyzer/replay"
	"go.uber.org/zap"
)

// Options configures an Analyzer.
type Options struct {
	Params indicators.Params

	// Symbol, when set, drops every trade for other symbols before it
	// reaches the registry.
	Symbol string

	Journal journal.Journal
	Metrics *metrics.Metrics // optional
	Logger  *zap.Logger      // optional
}

// Stats summarizes a Run.
type Stats struct {
	Input    replay.Stats
	Filtered int
	Rows     int
	Symbols  int
	Duration time.Duration
}

// Analyzer owns the symbol registry for one run. It is not safe for
// concurrent use.
type Analyzer struct {
	reg     *indicators.Registry
	symbol  string
	journal journal.Journal
	metrics *metrics.Metrics
	log     *zap.Logger
	seq     int64
}

// New returns an Analyzer writing rows to opts.Journal.
func New(opts Options) (*Analyzer, error) {
	if opts.Journal == nil {
		return nil, errors.New("analyzer: journal is required")
	}
	p := opts.Params
	if p.SMAWindow <= 0 || p.VolWindow <= 0 {
		return nil, fmt.Errorf("analyzer: windows must be positive (sma=%d vol=%d)", p.SMAWindow, p.VolWindow)
	}
	if p.EMAAlpha <= 0 || p.EMAAlpha > 1 {
		return nil, fmt.Errorf("analyzer: ema alpha %v out of range (0,1]", p.EMAAlpha)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Analyzer{
		reg:     indicators.NewRegistry(p),
		symbol:  opts.Symbol,
		journal: opts.Journal,
		metrics: opts.Metrics,
		log:     log.Named("analyzer"),
	}, nil
}

// Registry exposes the per-symbol series built so far.
func (a *Analyzer) Registry() *indicators.Registry {
	return a.reg
}

// Process applies one trade to its symbol's series and records the
// annotated row. The trade is not validated; replay.ParseRecord is the
// gate for untrusted input. Only positive notionals are counted.
func (a *Analyzer) Process(t market.Trade) (journal.Row, error) {
	s := a.reg.Resolve(t.Symbol)
	before := s.Session()

	s.Update(t.Price, t.Volume, t.Time)

	a.seq++
	row := journal.Row{
		Seq:    a.seq,
		Trade:  t,
		Values: s.Snapshot(),
	}

	if m := a.metrics; m != nil {
		m.Symbols.Set(float64(a.reg.Len()))
		if n := t.Notional(); n > 0 {
			m.Notional.Add(n)
		}
		if s.Count() == 1 {
			m.BaselineTotal.Inc()
		}
		if before != "" && s.Session() != before {
			m.SessionResets.Inc()
		}
	}
	if s.Count() == 1 {
		a.log.Debug("new symbol",
			zap.String("symbol", t.Symbol),
			zap.Float64("baseline", t.Price),
			zap.Strings("indicators", indicatorNames(s)),
		)
	}

	if err := a.journal.Record(row); err != nil {
		return row, fmt.Errorf("record row %d: %w", row.Seq, err)
	}
	if a.metrics != nil {
		a.metrics.RowsTotal.Inc()
	}
	return row, nil
}

// Run reads trades from r until EOF, a read or journal error, or ctx is
// cancelled. Cancellation is checked between records and returns
// ctx.Err() with the stats gathered so far. The journal is not closed.
func (a *Analyzer) Run(ctx context.Context, r io.Reader) (Stats, error) {
	start := time.Now()
	rd := replay.NewReader(r)
	rd.OnReject = func(e *replay.RecordError) {
		a.log.Debug("skipping record", zap.Int("line", e.Line), zap.String("reason", e.Reason), zap.Error(e.Err))
		if a.metrics != nil {
			a.metrics.RejectedTotal.WithLabelValues(e.Reason).Inc()
		}
	}

	var st Stats
	finish := func(err error) (Stats, error) {
		st.Input = rd.Stats()
		st.Symbols = a.reg.Len()
		st.Duration = time.Since(start)
		if a.metrics != nil {
			a.metrics.RecordsTotal.Add(float64(st.Input.Records))
			a.metrics.RunSeconds.Set(st.Duration.Seconds())
		}
		a.log.Info("run finished",
			zap.Int("records", st.Input.Records),
			zap.Int("parsed", st.Input.Parsed),
			zap.Int("rejected", st.Input.Rejected),
			zap.Int("filtered", st.Filtered),
			zap.Int("rows", st.Rows),
			zap.Int("symbols", st.Symbols),
			zap.Duration("elapsed", st.Duration),
			zap.Error(err),
		)
		return st, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		t, err := rd.Next()
		if err == io.EOF {
			return finish(nil)
		}
		if err != nil {
			return finish(fmt.Errorf("read trades: %w", err))
		}

		if a.symbol != "" && t.Symbol != a.symbol {
			st.Filtered++
			if a.metrics != nil {
				a.metrics.FilteredTotal.Inc()
			}
			continue
		}

		if _, err := a.Process(t); err != nil {
			return finish(err)
		}
		st.Rows++
	}
}

func indicatorNames(s *indicators.Series) []string {
	ind := s.Indicators()
	names := make([]string, len(ind))
	for i, x := range ind {
		names[i] = x.Name()
	}
	return names
}
