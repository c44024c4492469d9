// Package indicators provides streaming technical indicators for trade data.
//
// Each estimator consumes one observation per Update call and exposes its
// current value through Value. A Series bundles the four estimators for a
// single symbol and a Registry keys Series by symbol.
package indicators

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when an indicator kind outside the supported
// set is requested.
var ErrUnknownKind = errors.New("unrecognized indicator kind")

// Indicator is the read side shared by all estimators.
// Estimators are deterministic: replaying the same updates from a fresh
// value always yields the same result.
type Indicator interface {
	// Name returns a stable identifier like "SMA(20)".
	Name() string

	// Reset clears all internal state.
	Reset()

	// Ready reports whether Value() is computed from a full set of inputs.
	Ready() bool

	// Value returns the current indicator value, 0 before any input.
	Value() float64
}

// Kind identifies one of the indicators carried by a Series.
type Kind int

const (
	SMA Kind = iota
	EMA
	Volatility
	VWAP
)

var kindNames = [...]string{
	SMA:        "sma",
	EMA:        "ema",
	Volatility: "volatility",
	VWAP:       "vwap",
}

// Kinds returns every supported kind in output column order.
func Kinds() []Kind {
	return []Kind{SMA, EMA, Volatility, VWAP}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k >= SMA && k <= VWAP
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a column name (case-insensitive) back to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
