package indicators

import (
	"fmt"
	"math"
)

// HistoricalVol is the sample standard deviation of the last period returns.
type HistoricalVol struct {
	period  int
	returns window
}

// NewVolatility creates a volatility estimator over period returns.
func NewVolatility(period int) *HistoricalVol {
	return &HistoricalVol{
		period:  period,
		returns: newWindow(period),
	}
}

func (v *HistoricalVol) Name() string {
	return fmt.Sprintf("VOL(%d)", v.period)
}

func (v *HistoricalVol) Reset() {
	v.returns.reset()
}

// Update appends a fractional return, e.g. 0.05 for +5%.
func (v *HistoricalVol) Update(ret float64) {
	v.returns.push(ret)
}

func (v *HistoricalVol) Ready() bool {
	return v.returns.full()
}

// Len returns the number of returns currently in the window.
func (v *HistoricalVol) Len() int {
	return v.returns.size()
}

// Value returns the Bessel-corrected standard deviation of the window.
// Fewer than two returns yield 0.
func (v *HistoricalVol) Value() float64 {
	return sampleStdDev(v.returns.values())
}

func sampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
