package smooth

import "github.com/ayusman/mudra/internal/detector"

// Window is a moving arithmetic mean over the last N observations.
type Window struct {
	ring *Ring[float64]
	sum  float64
}

// NewWindow creates a mean window of the given size.
func NewWindow(size int) *Window {
	return &Window{ring: NewRing[float64](size)}
}

// Push records an observation.
func (w *Window) Push(v float64) {
	if old, ok := w.ring.Push(v); ok {
		w.sum -= old
	}
	w.sum += v
}

// Value returns the mean of the stored observations, or 0 when empty.
// A partial window averages what has been pushed so far.
func (w *Window) Value() float64 {
	if w.ring.Len() == 0 {
		return 0
	}
	// Recompute from the buffer once full so the running sum cannot drift.
	if w.ring.Full() {
		w.sum = 0
		for i := 0; i < w.ring.Len(); i++ {
			w.sum += w.ring.At(i)
		}
	}
	return w.sum / float64(w.ring.Len())
}

// Len returns the number of stored observations.
func (w *Window) Len() int { return w.ring.Len() }

// Reset clears the history.
func (w *Window) Reset() {
	w.ring.Reset()
	w.sum = 0
}

// PointWindow averages 2D positions component-wise.
type PointWindow struct {
	x, y *Window
}

// NewPointWindow creates a point window of the given size.
func NewPointWindow(size int) *PointWindow {
	return &PointWindow{x: NewWindow(size), y: NewWindow(size)}
}

// Push records a position. Depth is ignored.
func (w *PointWindow) Push(p detector.Point3D) {
	w.x.Push(p.X)
	w.y.Push(p.Y)
}

// Value returns the mean position.
func (w *PointWindow) Value() detector.Point3D {
	return detector.Point3D{X: w.x.Value(), Y: w.y.Value()}
}

// Len returns the number of stored positions.
func (w *PointWindow) Len() int { return w.x.Len() }

// Reset clears the history.
func (w *PointWindow) Reset() {
	w.x.Reset()
	w.y.Reset()
}
