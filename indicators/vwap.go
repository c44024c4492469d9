package indicators

// sessionKeyLen is the length of the "YYYY-MM-DD" date prefix.
const sessionKeyLen = 10

// SessionKey returns the trading session a timestamp belongs to: its leading
// date portion. No calendar parsing is done, the caller's format is trusted.
func SessionKey(ts string) string {
	if len(ts) <= sessionKeyLen {
		return ts
	}
	return ts[:sessionKeyLen]
}

// SessionVWAP is a volume-weighted average price that restarts every session.
//
// Sessions are detected by comparing SessionKey of consecutive timestamps,
// so timestamps that jump back across a date boundary trigger a reset too.
type SessionVWAP struct {
	priceVolume float64
	volume      int64
	session     string
	started     bool
}

// NewVWAP creates an empty session VWAP.
func NewVWAP() *SessionVWAP {
	return &SessionVWAP{}
}

func (w *SessionVWAP) Name() string {
	return "VWAP(daily)"
}

func (w *SessionVWAP) Reset() {
	w.priceVolume = 0
	w.volume = 0
	w.session = ""
	w.started = false
}

// Update adds a trade. A new session key clears the sums first, so the trade
// becomes the first member of the new session.
func (w *SessionVWAP) Update(price float64, volume int64, ts string) {
	key := SessionKey(ts)
	if !w.started || key != w.session {
		w.priceVolume = 0
		w.volume = 0
		w.session = key
		w.started = true
	}

	w.priceVolume += price * float64(volume)
	w.volume += volume
}

// Session returns the current session key, "" before the first update.
func (w *SessionVWAP) Session() string {
	return w.session
}

func (w *SessionVWAP) Ready() bool {
	return w.volume > 0
}

func (w *SessionVWAP) Value() float64 {
	if w.volume == 0 {
		return 0
	}
	return w.priceVolume / float64(w.volume)
}
