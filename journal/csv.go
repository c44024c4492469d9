package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rustyeddy/analyzer/indicators"
)

// BaseColumns are always written, ahead of any indicator columns.
var BaseColumns = []string{"timestamp", "symbol", "price", "volume"}

// CSVJournal writes rows as CSV with a chosen set of indicator columns.
type CSVJournal struct {
	w     *csv.Writer
	c     io.Closer
	kinds []indicators.Kind
}

// NewCSV writes the header to w and returns a journal that appends one line
// per row. kinds selects the indicator columns; they are always emitted in
// indicators.Kinds() order.
func NewCSV(w io.Writer, kinds []indicators.Kind) (*CSVJournal, error) {
	j := &CSVJournal{
		w:     csv.NewWriter(w),
		kinds: orderKinds(kinds),
	}
	if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
		j.c = c
	}

	if err := j.w.Write(Header(j.kinds)); err != nil {
		return nil, err
	}
	return j, nil
}

// NewCSVFile creates path and writes the journal into it. "-" means stdout.
func NewCSVFile(path string, kinds []indicators.Kind) (*CSVJournal, error) {
	if path == "" || path == "-" {
		return NewCSV(os.Stdout, kinds)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	j, err := NewCSV(f, kinds)
	if err != nil {
		f.Close()
		return nil, err
	}
	return j, nil
}

// Header returns the CSV header for the given indicator columns.
func Header(kinds []indicators.Kind) []string {
	h := append([]string{}, BaseColumns...)
	for _, k := range orderKinds(kinds) {
		h = append(h, k.String())
	}
	return h
}

func (j *CSVJournal) Record(r Row) error {
	rec := make([]string, 0, len(BaseColumns)+len(j.kinds))
	rec = append(rec,
		r.Trade.Time,
		r.Trade.Symbol,
		f(r.Trade.Price),
		strconv.FormatInt(r.Trade.Volume, 10),
	)
	for _, k := range j.kinds {
		v, err := r.Values.Get(k)
		if err != nil {
			return fmt.Errorf("row %d: %w", r.Seq, err)
		}
		rec = append(rec, f(v))
	}
	return j.w.Write(rec)
}

// Flush pushes buffered rows to the underlying writer.
func (j *CSVJournal) Flush() error {
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	if err := j.Flush(); err != nil {
		return err
	}
	if j.c != nil {
		return j.c.Close()
	}
	return nil
}

func orderKinds(kinds []indicators.Kind) []indicators.Kind {
	want := make(map[indicators.Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	var out []indicators.Kind
	for _, k := range indicators.Kinds() {
		if want[k] {
			out = append(out, k)
		}
	}
	return out
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
