package overlay

import (
	"sync"

	"gocv.io/x/gocv"
)

// Key is a control key read from the display.
type Key int

const (
	KeyNone Key = iota
	KeyQuit
	KeyClear
)

// KeyFromCode maps a raw highgui key code.
func KeyFromCode(code int) Key {
	if code < 0 {
		return KeyNone
	}
	switch code & 0xff {
	case 'q', 'Q', 27:
		return KeyQuit
	case 'c', 'C':
		return KeyClear
	default:
		return KeyNone
	}
}

// Display shows annotated frames and reports control keys.
type Display interface {
	Show(frame gocv.Mat) Key
	Close() error
}

// Window is a highgui preview window.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a preview window titled title.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

// Show displays frame and polls the keyboard for one millisecond. Closing the
// window counts as quit.
func (w *Window) Show(frame gocv.Mat) Key {
	w.window.IMShow(frame)
	key := KeyFromCode(w.window.WaitKey(1))
	if key == KeyNone && !w.window.IsOpen() {
		return KeyQuit
	}
	return key
}

func (w *Window) Close() error {
	return w.window.Close()
}

// Headless discards frames. Keys can be scripted per frame number, counted
// from 1, for replaying a session without a screen.
type Headless struct {
	mu     sync.Mutex
	frames int
	keys   map[int]Key
}

func NewHeadless() *Headless {
	return &Headless{keys: make(map[int]Key)}
}

// Press schedules key to be reported when frame number n is shown.
func (h *Headless) Press(n int, key Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys[n] = key
}

func (h *Headless) Show(frame gocv.Mat) Key {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames++
	return h.keys[h.frames]
}

// Frames returns how many frames were shown.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

func (h *Headless) Close() error { return nil }
