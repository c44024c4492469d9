package indicators

import "fmt"

// Params are the per-run indicator settings shared by every Series.
type Params struct {
	SMAWindow int
	EMAAlpha  float64
	VolWindow int
}

// Snapshot holds the current value of every indicator of a Series.
type Snapshot struct {
	SMA        float64
	EMA        float64
	Volatility float64
	VWAP       float64
}

// Get returns the value for kind k.
func (s Snapshot) Get(k Kind) (float64, error) {
	switch k {
	case SMA:
		return s.SMA, nil
	case EMA:
		return s.EMA, nil
	case Volatility:
		return s.Volatility, nil
	case VWAP:
		return s.VWAP, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
}

// Series carries the indicators of one symbol plus the last price used to
// derive returns.
//
// The first observation only sets the baseline price; no estimator sees it.
// That keeps the first contributing observation of all four indicators
// aligned on the second trade.
type Series struct {
	sma  *SimpleMA
	ema  *ExponentialMA
	vol  *HistoricalVol
	vwap *SessionVWAP

	lastPrice float64
	seeded    bool
	count     int
}

// NewSeries builds a Series with the given parameters.
func NewSeries(p Params) *Series {
	return &Series{
		sma:  NewSMA(p.SMAWindow),
		ema:  NewEMA(p.EMAAlpha),
		vol:  NewVolatility(p.VolWindow),
		vwap: NewVWAP(),
	}
}

// Update feeds one trade into the series.
func (s *Series) Update(price float64, volume int64, ts string) {
	s.count++
	if !s.seeded {
		s.lastPrice = price
		s.seeded = true
		return
	}

	s.sma.Update(price)
	s.ema.Update(price)
	// A zero baseline has no defined return; the window is left untouched.
	if s.lastPrice != 0 {
		s.vol.Update(price/s.lastPrice - 1.0)
	}
	s.vwap.Update(price, volume, ts)

	s.lastPrice = price
}

// Get returns the current value of indicator k.
func (s *Series) Get(k Kind) (float64, error) {
	switch k {
	case SMA:
		return s.sma.Value(), nil
	case EMA:
		return s.ema.Value(), nil
	case Volatility:
		return s.vol.Value(), nil
	case VWAP:
		return s.vwap.Value(), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
}

// Snapshot returns all four indicator values.
func (s *Series) Snapshot() Snapshot {
	return Snapshot{
		SMA:        s.sma.Value(),
		EMA:        s.ema.Value(),
		Volatility: s.vol.Value(),
		VWAP:       s.vwap.Value(),
	}
}

// Indicators returns the estimators in Kinds() order.
func (s *Series) Indicators() []Indicator {
	return []Indicator{s.sma, s.ema, s.vol, s.vwap}
}

// Count returns the number of trades seen, baseline included.
func (s *Series) Count() int { return s.count }

// LastPrice returns the most recent price and whether one has been seen.
func (s *Series) LastPrice() (float64, bool) {
	return s.lastPrice, s.seeded
}

// Session returns the VWAP session key currently accumulated, empty
// until the first non-baseline trade.
func (s *Series) Session() string { return s.vwap.Session() }
