package action

import (
	"math"
	"time"

	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/smooth"
)

// VolumeConfig holds pinch-to-volume parameters.
type VolumeConfig struct {
	MinDistance float64 // pinch distance mapped to 0%
	MaxDistance float64 // pinch distance mapped to 100%
	Window      int
	MinChange   int // smaller changes from the applied level are suppressed
	Initial     int
}

// DefaultVolumeConfig returns the volume defaults.
func DefaultVolumeConfig() VolumeConfig {
	return VolumeConfig{
		MinDistance: 20,
		MaxDistance: 280,
		Window:      8,
		MinChange:   2,
		Initial:     50,
	}
}

// Volume maps the thumb-index pinch distance of the primary hand to a volume level.
type Volume struct {
	config   VolumeConfig
	window   *smooth.Window
	applied  int
	distance float64
}

// NewVolume creates a volume dispatcher starting at config.Initial.
func NewVolume(config VolumeConfig) *Volume {
	v := &Volume{
		config: config,
		window: smooth.NewWindow(config.Window),
	}
	v.SetApplied(config.Initial)
	return v
}

// SetApplied records the level the system is known to be at.
func (v *Volume) SetApplied(pct int) {
	v.applied = clampPercent(pct)
}

// Applied returns the last applied level.
func (v *Volume) Applied() int { return v.applied }

// Distance returns the pinch distance seen in the last update.
func (v *Volume) Distance() float64 { return v.distance }

// Filled returns how many observations the smoothing window holds.
func (v *Volume) Filled() int { return v.window.Len() }

// Config returns the effective configuration.
func (v *Volume) Config() VolumeConfig { return v.config }

// Percent maps a pinch distance to 0..100.
func (v *Volume) Percent(distance float64) float64 {
	return interp(distance, v.config.MinDistance, v.config.MaxDistance, 0, 100)
}

// Update consumes one frame. A volume event is returned only when the
// smoothed level moved at least MinChange points from the applied level.
func (v *Volume) Update(r *pipeline.HandResult, now time.Time) (Event, bool) {
	if r == nil {
		return Event{}, false
	}

	v.distance = r.Hand.Pinch()
	v.window.Push(v.Percent(v.distance))

	level := clampPercent(int(math.Round(v.window.Value())))
	if abs(level-v.applied) < v.config.MinChange {
		return Event{}, false
	}

	v.applied = level
	return Event{Kind: KindVolume, Time: now, Percent: level}, true
}

func clampPercent(p int) int {
	return max(0, min(100, p))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
