// Package smooth provides bounded history windows for averaging and voting
// over recent per-frame signals.
package smooth

// Ring is a fixed-capacity FIFO. Pushing into a full ring evicts the oldest
// element. Ring is not safe for concurrent use.
type Ring[T any] struct {
	buf   []T
	start int
	n     int
}

// NewRing creates a ring holding at most size elements. Sizes below 1 are raised to 1.
func NewRing[T any](size int) *Ring[T] {
	if size < 1 {
		size = 1
	}
	return &Ring[T]{buf: make([]T, size)}
}

// Push appends v. When the ring was full the evicted element is returned with ok set.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return evicted, false
	}
	evicted = r.buf[r.start]
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
	return evicted, true
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int { return r.n }

// Cap returns the capacity fixed at construction.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Full reports whether the next Push will evict.
func (r *Ring[T]) Full() bool { return r.n == len(r.buf) }

// At returns the i-th element, oldest first.
func (r *Ring[T]) At(i int) T {
	return r.buf[(r.start+i)%len(r.buf)]
}

// Last returns the most recently pushed element.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.n == 0 {
		return zero, false
	}
	return r.At(r.n - 1), true
}

// Values returns a copy of the contents, oldest first.
func (r *Ring[T]) Values() []T {
	out := make([]T, r.n)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// Reset empties the ring.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.start, r.n = 0, 0
}
