package osctl

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/action"
)

// Simulated keeps pointer and volume state in memory without touching the
// system. It is used when no platform tools are available.
type Simulated struct {
	mu     sync.Mutex
	log    zerolog.Logger
	x, y   int
	volume int
	clicks int
	scroll int
}

// NewSimulated creates a simulated backend starting at 50% volume.
func NewSimulated(log zerolog.Logger) *Simulated {
	return &Simulated{
		log:    log.With().Str("component", "simulated").Logger(),
		volume: 50,
	}
}

// MoveCursor implements action.Desktop.
func (s *Simulated) MoveCursor(ctx context.Context, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x, s.y = x, y
	return nil
}

// Click implements action.Desktop.
func (s *Simulated) Click(ctx context.Context, button action.Button) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks++
	s.log.Debug().Str("button", string(button)).Int("x", s.x).Int("y", s.y).Msg("click")
	return nil
}

// Scroll implements action.Desktop.
func (s *Simulated) Scroll(ctx context.Context, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll += delta
	s.log.Debug().Int("delta", delta).Msg("scroll")
	return nil
}

// SetVolume implements action.Mixer.
func (s *Simulated) SetVolume(ctx context.Context, pct int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = pct
	s.log.Debug().Int("volume", pct).Msg("volume")
	return nil
}

// Volume implements action.VolumeReader.
func (s *Simulated) Volume(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume, nil
}

// Cursor returns the last cursor position.
func (s *Simulated) Cursor() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y
}

// Clicks returns the number of clicks received.
func (s *Simulated) Clicks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicks
}
