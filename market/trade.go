package market

// Trade is a single executed trade as read from the input feed.
//
// Time is kept as the raw feed string. Its leading "YYYY-MM-DD" portion
// identifies the trading session, so it must sort lexically.
type Trade struct {
	Time   string
	Symbol string
	Price  float64
	Volume int64
}

// Notional returns price times volume.
func (t Trade) Notional() float64 {
	return t.Price * float64(t.Volume)
}
