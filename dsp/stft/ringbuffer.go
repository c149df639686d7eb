package stft

// ringBuffer is an append/drop FIFO of float64 samples. Once reserve has run
// for the capacity the graph actually needs, push and drop never grow the
// backing array, so steady-state operation is allocation-free. Grounded on
// the circular-buffer idiom of dsp/delay.Line, adapted to a slice-shift FIFO
// since the subgraph only ever needs sequential push/peek/drop access.
type ringBuffer struct {
	data []float64
}

func (r *ringBuffer) reserve(n int) {
	if cap(r.data) >= n {
		return
	}
	buf := make([]float64, len(r.data), n)
	copy(buf, r.data)
	r.data = buf
}

func (r *ringBuffer) length() int { return len(r.data) }

// push appends samples to the tail.
func (r *ringBuffer) push(samples []float64) {
	r.data = append(r.data, samples...)
}

// peek returns the first n samples without removing them. The slice aliases
// internal storage and is valid only until the next push or drop.
func (r *ringBuffer) peek(n int) []float64 {
	return r.data[:n]
}

// drop removes the first n samples.
func (r *ringBuffer) drop(n int) {
	remaining := len(r.data) - n
	copy(r.data, r.data[n:])
	r.data = r.data[:remaining]
}

// drainInto copies the first len(dst) samples into dst and removes them.
func (r *ringBuffer) drainInto(dst []float64) {
	n := len(dst)
	copy(dst, r.data[:n])
	r.drop(n)
}
