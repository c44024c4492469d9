// Package journal records annotated trade rows to CSV or SQLite.
package journal

import (
	"errors"
	"time"

	"github.com/rustyeddy/analyzer/indicators"
	"github.com/rustyeddy/analyzer/market"
)

// Row is one input trade annotated with its symbol's indicator values
// after the trade was applied.
type Row struct {
	Seq    int64
	Trade  market.Trade
	Values indicators.Snapshot
}

// RunInfo describes one analyzer run.
type RunInfo struct {
	RunID     string
	Created   time.Time
	Source    string
	SMAWindow int
	EMASpan   int
	VolWindow int
}

type Journal interface {
	Record(Row) error
	Close() error
}

// Multi fans every row out to several journals.
type Multi []Journal

func (m Multi) Record(r Row) error {
	for _, j := range m {
		if err := j.Record(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every journal and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.Close())
	}
	return errors.Join(errs...)
}
