package indicators

// Registry maps symbols to their Series. Entries are created on first use
// and never removed.
type Registry struct {
	params Params
	series map[string]*Series
	order  []string
}

// NewRegistry creates an empty registry whose Series all use p.
func NewRegistry(p Params) *Registry {
	return &Registry{
		params: p,
		series: make(map[string]*Series),
	}
}

// Resolve returns the Series for symbol, creating it if needed.
func (r *Registry) Resolve(symbol string) *Series {
	if s, ok := r.series[symbol]; ok {
		return s
	}
	s := NewSeries(r.params)
	r.series[symbol] = s
	r.order = append(r.order, symbol)
	return s
}

// Lookup returns the Series for symbol without creating one.
func (r *Registry) Lookup(symbol string) (*Series, bool) {
	s, ok := r.series[symbol]
	return s, ok
}

// Len returns the number of distinct symbols seen.
func (r *Registry) Len() int {
	return len(r.series)
}

// Symbols returns the known symbols in first-seen order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Params returns the parameters new Series are built with.
func (r *Registry) Params() Params {
	return r.params
}
