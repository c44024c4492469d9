package indicators

// window is a fixed capacity FIFO of float64 values. Once full, each push
// overwrites the oldest value.
type window struct {
	buf   []float64
	start int
	n     int
}

func newWindow(size int) window {
	if size < 1 {
		size = 1
	}
	return window{buf: make([]float64, size)}
}

func (w *window) push(v float64) {
	if w.n < len(w.buf) {
		w.buf[(w.start+w.n)%len(w.buf)] = v
		w.n++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

func (w *window) size() int { return w.n }

func (w *window) full() bool { return w.n == len(w.buf) }

func (w *window) reset() {
	w.start = 0
	w.n = 0
}

// values copies the held values oldest first.
func (w *window) values() []float64 {
	out := make([]float64, w.n)
	for i := 0; i < w.n; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}

// sum adds values oldest first so results match a plain left fold.
func (w *window) sum() float64 {
	s := 0.0
	for i := 0; i < w.n; i++ {
		s += w.buf[(w.start+i)%len(w.buf)]
	}
	return s
}
