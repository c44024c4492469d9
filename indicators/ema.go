package indicators

import "fmt"

// ExponentialMA is a streaming Exponential Moving Average.
// O(1) per update, no window storage needed.
type ExponentialMA struct {
	alpha   float64
	current float64
	seeded  bool
}

// Alpha converts an EMA span to its smoothing factor, 2/(span+1).
func Alpha(span int) float64 {
	return 2.0 / (float64(span) + 1.0)
}

// NewEMA creates an EMA with a fixed smoothing factor in (0,1).
func NewEMA(alpha float64) *ExponentialMA {
	return &ExponentialMA{alpha: alpha}
}

// NewEMAFromSpan creates an EMA whose alpha is derived from span.
func NewEMAFromSpan(span int) *ExponentialMA {
	return NewEMA(Alpha(span))
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%.4f)", e.alpha)
}

// Alpha returns the smoothing factor fixed at construction.
func (e *ExponentialMA) Alpha() float64 {
	return e.alpha
}

func (e *ExponentialMA) Reset() {
	e.current = 0
	e.seeded = false
}

// Update seeds the average with the first price and smooths every later one.
func (e *ExponentialMA) Update(price float64) {
	if !e.seeded {
		e.current = price
		e.seeded = true
		return
	}
	e.current = e.alpha*price + (1-e.alpha)*e.current
}

func (e *ExponentialMA) Ready() bool {
	return e.seeded
}

func (e *ExponentialMA) Value() float64 {
	return e.current
}
