package indicators

import "fmt"

// SimpleMA is a streaming Simple Moving Average over the last period prices.
//
// During warm-up the average covers every price seen so far, so Value is
// meaningful from the first update even though Ready is still false.
type SimpleMA struct {
	period int
	prices window
}

// NewSMA creates a new Simple Moving Average indicator with the given period.
func NewSMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		prices: newWindow(period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("SMA(%d)", m.period)
}

func (m *SimpleMA) Reset() {
	m.prices.reset()
}

// Update appends price, evicting the oldest one once the window is full.
func (m *SimpleMA) Update(price float64) {
	m.prices.push(price)
}

func (m *SimpleMA) Ready() bool {
	return m.prices.full()
}

// Len returns the number of prices currently in the window.
func (m *SimpleMA) Len() int {
	return m.prices.size()
}

func (m *SimpleMA) Value() float64 {
	n := m.prices.size()
	if n == 0 {
		return 0
	}
	return m.prices.sum() / float64(n)
}
