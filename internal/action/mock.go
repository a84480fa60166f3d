package action

import (
	"context"
	"sync"
)

// Recorder is a test implementation of Desktop, Mixer, Canvas and Journal
// that records every call. Set Err to make every call fail.
type Recorder struct {
	mu sync.Mutex

	Err error

	Moves    [][2]int
	Clicks   []Button
	Scrolls  []int
	Volumes  []int
	Strokes  []Stroke
	Clears   int
	Recorded []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) MoveCursor(ctx context.Context, x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Moves = append(r.Moves, [2]int{x, y})
	return nil
}

func (r *Recorder) Click(ctx context.Context, button Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Clicks = append(r.Clicks, button)
	return nil
}

func (r *Recorder) Scroll(ctx context.Context, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Scrolls = append(r.Scrolls, delta)
	return nil
}

func (r *Recorder) SetVolume(ctx context.Context, pct int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Volumes = append(r.Volumes, pct)
	return nil
}

func (r *Recorder) DrawStroke(s Stroke) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Strokes = append(r.Strokes, s)
	return nil
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clears++
}

func (r *Recorder) Record(ctx context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Recorded = append(r.Recorded, ev)
	return nil
}

// StrokeIDs returns the distinct stroke IDs in drawing order.
func (r *Recorder) StrokeIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	seen := make(map[string]bool)
	for _, s := range r.Strokes {
		if !seen[s.ID] {
			seen[s.ID] = true
			ids = append(ids, s.ID)
		}
	}
	return ids
}
