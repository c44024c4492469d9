// Package replay reads historical trades from CSV.
package replay

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rustyeddy/analyzer/market"
)

// Reasons a record is rejected.
const (
	ReasonFields    = "fields"
	ReasonTimestamp = "timestamp"
	ReasonSymbol    = "symbol"
	ReasonPrice     = "price"
	ReasonVolume    = "volume"
	ReasonSyntax    = "syntax"
)

// RecordError describes a record that could not be turned into a Trade.
type RecordError struct {
	Line   int
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: bad %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("bad %s: %v", e.Reason, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Stats counts what a Reader has seen so far.
type Stats struct {
	Records  int // non-empty records read, header included
	Parsed   int
	Rejected int
	Header   bool
	Reasons  map[string]int
}

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// Reader streams trades from CSV rows of the form
//
//	timestamp,symbol,price,volume
//
// Each physical line is one record, so an unbalanced quote costs only its
// own line. Extra trailing columns are ignored. An optional header row is
// detected on the first record. Empty lines and malformed records are
// skipped; OnReject is called for every malformed record when set.
type Reader struct {
	sc    *bufio.Scanner
	line  int
	stats Stats
	first bool

	OnReject func(*RecordError)
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Reader{
		sc:    sc,
		first: true,
		stats: Stats{Reasons: map[string]int{}},
	}
}

// Next returns the next well-formed trade, or io.EOF once the input is
// exhausted. Any other error comes from the underlying reader.
func (r *Reader) Next() (market.Trade, error) {
	for r.sc.Scan() {
		r.line++
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.stats.Records++

		row, err := splitLine(line)
		if err != nil {
			r.first = false
			r.reject(&RecordError{Line: r.line, Reason: ReasonSyntax, Err: err})
			continue
		}

		if r.first {
			r.first = false
			if isHeader(row) {
				r.stats.Header = true
				continue
			}
		}

		t, err := ParseRecord(row)
		if err != nil {
			var rerr *RecordError
			if errors.As(err, &rerr) {
				rerr.Line = r.line
				r.reject(rerr)
				continue
			}
			return market.Trade{}, err
		}

		r.stats.Parsed++
		return t, nil
	}

	if err := r.sc.Err(); err != nil {
		return market.Trade{}, fmt.Errorf("read line %d: %w", r.line+1, err)
	}
	return market.Trade{}, io.EOF
}

// splitLine tokenizes one line with CSV quoting rules.
func splitLine(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	row, err := cr.Read()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, perr.Err
		}
		return nil, err
	}
	return row, nil
}

// Stats returns a copy of the counters.
func (r *Reader) Stats() Stats {
	s := r.stats
	s.Reasons = make(map[string]int, len(r.stats.Reasons))
	for k, v := range r.stats.Reasons {
		s.Reasons[k] = v
	}
	return s
}

func (r *Reader) reject(e *RecordError) {
	r.stats.Rejected++
	r.stats.Reasons[e.Reason]++
	if r.OnReject != nil {
		r.OnReject(e)
	}
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimSpace(row[0])
	return strings.EqualFold(first, "timestamp") || strings.EqualFold(first, "time")
}

// ParseRecord converts one CSV record into a Trade. Price must be a positive
// number and volume a non-negative integer.
func ParseRecord(row []string) (market.Trade, error) {
	// Minimum columns: timestamp,symbol,price,volume
	if len(row) < 4 {
		return market.Trade{}, &RecordError{
			Reason: ReasonFields,
			Err:    fmt.Errorf("need 4 columns timestamp,symbol,price,volume, got %d", len(row)),
		}
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Trade{}, &RecordError{Reason: ReasonTimestamp, Err: errors.New("empty timestamp")}
	}
	sym := strings.TrimSpace(row[1])
	if sym == "" {
		return market.Trade{}, &RecordError{Reason: ReasonSymbol, Err: errors.New("empty symbol")}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return market.Trade{}, &RecordError{Reason: ReasonPrice, Err: err}
	}
	if !(price > 0) || math.IsInf(price, 1) {
		return market.Trade{}, &RecordError{Reason: ReasonPrice, Err: fmt.Errorf("price %q must be positive and finite", row[2])}
	}

	vol, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
	if err != nil {
		return market.Trade{}, &RecordError{Reason: ReasonVolume, Err: err}
	}
	if vol < 0 {
		return market.Trade{}, &RecordError{Reason: ReasonVolume, Err: fmt.Errorf("volume %d is negative", vol)}
	}

	return market.Trade{
		Time:   ts,
		Symbol: sym,
		Price:  price,
		Volume: vol,
	}, nil
}
