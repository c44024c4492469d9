// Package metrics holds the Prometheus collectors for an analyzer run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the analyzer.
type Metrics struct {
	RecordsTotal  prometheus.Counter
	RejectedTotal *prometheus.CounterVec // labels: reason
	FilteredTotal prometheus.Counter
	RowsTotal     prometheus.Counter
	BaselineTotal prometheus.Counter
	Symbols       prometheus.Gauge
	Notional      prometheus.Counter
	SessionResets prometheus.Counter
	RunSeconds    prometheus.Gauge

	reg *prometheus.Registry
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		RecordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_records_total",
			Help: "Non-empty input records read, header included",
		}),
		RejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_rejected_records_total",
			Help: "Malformed input records skipped, by reason",
		}, []string{"reason"}),
		FilteredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_filtered_trades_total",
			Help: "Well-formed trades dropped by the symbol filter",
		}),
		RowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_rows_total",
			Help: "Annotated rows written to the journal",
		}),
		BaselineTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_baseline_trades_total",
			Help: "Trades that only seeded a new symbol's baseline price",
		}),
		Symbols: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "analyzer_symbols",
			Help: "Distinct symbols tracked",
		}),
		Notional: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_notional_total",
			Help: "Sum of price times volume over processed trades",
		}),
		SessionResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_vwap_session_resets_total",
			Help: "VWAP session changes across all symbols",
		}),
		RunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "analyzer_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		reg: prometheus.NewRegistry(),
	}

	m.reg.MustRegister(
		m.RecordsTotal,
		m.RejectedTotal,
		m.FilteredTotal,
		m.RowsTotal,
		m.BaselineTotal,
		m.Symbols,
		m.Notional,
		m.SessionResets,
		m.RunSeconds,
	)
	return m
}

// Registry exposes the private registry, e.g. for promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteTextfile writes the current values in the node_exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
