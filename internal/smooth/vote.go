package smooth

// Vote reports the majority value of the last N observations with hysteresis:
// the stable value changes only when another value holds a strict plurality.
// On a tie the previous stable value is retained; before any stable value
// exists, the most recent of the tied values wins.
type Vote[T comparable] struct {
	ring   *Ring[T]
	stable T
	has    bool
}

// NewVote creates a voting window of the given size.
func NewVote[T comparable](size int) *Vote[T] {
	return &Vote[T]{ring: NewRing[T](size)}
}

// Push records an observation and returns the resulting stable value.
func (v *Vote[T]) Push(value T) T {
	v.ring.Push(value)

	counts := make(map[T]int, v.ring.Len())
	best := 0
	for i := 0; i < v.ring.Len(); i++ {
		c := counts[v.ring.At(i)] + 1
		counts[v.ring.At(i)] = c
		if c > best {
			best = c
		}
	}

	tied := 0
	for _, c := range counts {
		if c == best {
			tied++
		}
	}

	switch {
	case tied == 1:
		for val, c := range counts {
			if c == best {
				v.stable = val
			}
		}
		v.has = true
	case !v.has:
		for i := v.ring.Len() - 1; i >= 0; i-- {
			if val := v.ring.At(i); counts[val] == best {
				v.stable = val
				break
			}
		}
		v.has = true
	}

	return v.stable
}

// Value returns the current stable value. ok is false before the first Push.
func (v *Vote[T]) Value() (value T, ok bool) {
	return v.stable, v.has
}

// Len returns the number of stored observations.
func (v *Vote[T]) Len() int { return v.ring.Len() }

// Reset clears the history and the stable value.
func (v *Vote[T]) Reset() {
	var zero T
	v.ring.Reset()
	v.stable = zero
	v.has = false
}
