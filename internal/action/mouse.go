package action

import (
	"image"
	"math"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/smooth"
)

// MouseConfig holds virtual mouse parameters. Distances are camera pixels.
type MouseConfig struct {
	FrameWidth      int
	FrameHeight     int
	ScreenWidth     int
	ScreenHeight    int
	Margin          float64 // active zone inset from each frame edge
	Sensitivity     float64 // applied around the screen center after mapping
	ClickDistance   float64
	ClickCooldown   time.Duration
	Window          int
	ScrollThreshold float64
	ScrollDivisor   float64
}

// DefaultMouseConfig returns mouse defaults for a 1280x720 camera and a 1920x1080 screen.
func DefaultMouseConfig() MouseConfig {
	return MouseConfig{
		FrameWidth:      1280,
		FrameHeight:     720,
		ScreenWidth:     1920,
		ScreenHeight:    1080,
		Margin:          100,
		Sensitivity:     2.5,
		ClickDistance:   40,
		ClickCooldown:   300 * time.Millisecond,
		Window:          7,
		ScrollThreshold: 20,
		ScrollDivisor:   10,
	}
}

// MouseMode describes what the mouse dispatcher did with the last frame.
type MouseMode string

const (
	MouseNoHand     MouseMode = "No Hand"
	MouseIdle       MouseMode = "Idle"
	MouseMoving     MouseMode = "Moving Cursor"
	MouseLeftClick  MouseMode = "Left Click"
	MouseRightClick MouseMode = "Right Click"
	MouseScrolling  MouseMode = "Scroll Mode"
)

// Mouse maps the primary hand to pointer events:
//   - fist scrolls by vertical hand displacement
//   - all five fingers up right-clicks
//   - index up moves the cursor, and a thumb-index pinch left-clicks
type Mouse struct {
	config     MouseConfig
	tip        *smooth.PointWindow
	click      *Cooldown
	rightClick *Cooldown
	scroll     Toggle
	anchorY    float64
	mode       MouseMode
	cursor     image.Point
}

// NewMouse creates a mouse dispatcher with its own smoothing state.
func NewMouse(config MouseConfig) *Mouse {
	if config.ScrollDivisor == 0 {
		config.ScrollDivisor = 10
	}
	if config.Sensitivity <= 0 {
		config.Sensitivity = 1
	}
	return &Mouse{
		config:     config,
		tip:        smooth.NewPointWindow(config.Window),
		click:      NewCooldown(config.ClickCooldown),
		rightClick: NewCooldown(config.ClickCooldown),
		mode:       MouseNoHand,
	}
}

// SetFrameSize updates the camera resolution the active zone is derived from.
func (m *Mouse) SetFrameSize(width, height int) {
	m.config.FrameWidth, m.config.FrameHeight = width, height
}

// SetScreenSize updates the target screen resolution.
func (m *Mouse) SetScreenSize(width, height int) {
	m.config.ScreenWidth, m.config.ScreenHeight = width, height
}

// Mode returns the mode of the last update.
func (m *Mouse) Mode() MouseMode { return m.mode }

// Cursor returns the last mapped cursor position.
func (m *Mouse) Cursor() image.Point { return m.cursor }

// Config returns the effective configuration.
func (m *Mouse) Config() MouseConfig { return m.config }

// ActiveZone returns the camera-space rectangle mapped onto the full screen.
func (m *Mouse) ActiveZone() image.Rectangle {
	margin := int(m.config.Margin)
	return image.Rect(margin, margin, m.config.FrameWidth-margin, m.config.FrameHeight-margin)
}

// Update consumes one frame and returns at most one event.
func (m *Mouse) Update(r *pipeline.HandResult, now time.Time) (Event, bool) {
	if r == nil {
		m.scroll.Update(false)
		m.mode = MouseNoHand
		return Event{}, false
	}

	fingers := r.Fingers
	hand := &r.Hand

	if fingers.Pattern() == 0 {
		m.mode = MouseScrolling
		return m.updateScroll(hand.Points[detector.MiddleMCP].Y, now)
	}
	m.scroll.Update(false)

	switch {
	case fingers.Count() == 5:
		m.mode = MouseRightClick
		if m.rightClick.Allow(now) {
			return Event{Kind: KindClick, Time: now, Button: ButtonRight, X: m.cursor.X, Y: m.cursor.Y}, true
		}
		return Event{}, false

	case fingers.Up(gesture.Index):
		m.mode = MouseMoving
		m.tip.Push(hand.Points[detector.IndexTip])
		m.cursor = m.Map(m.tip.Value())

		if hand.Pinch() < m.config.ClickDistance && m.click.Allow(now) {
			m.mode = MouseLeftClick
			return Event{Kind: KindClick, Time: now, Button: ButtonLeft, X: m.cursor.X, Y: m.cursor.Y}, true
		}
		return Event{Kind: KindMove, Time: now, X: m.cursor.X, Y: m.cursor.Y}, true

	default:
		m.mode = MouseIdle
		return Event{}, false
	}
}

func (m *Mouse) updateScroll(y float64, now time.Time) (Event, bool) {
	if m.scroll.Update(true) == Started {
		m.anchorY = y
		return Event{}, false
	}

	delta := m.anchorY - y
	if math.Abs(delta) <= m.config.ScrollThreshold {
		return Event{}, false
	}

	m.anchorY = y
	amount := int(delta / m.config.ScrollDivisor)
	if amount == 0 {
		return Event{}, false
	}
	return Event{Kind: KindScroll, Time: now, Delta: amount}, true
}

// Map converts a camera-space point to screen coordinates. The active zone is
// interpolated onto the screen, scaled by the sensitivity around the screen
// center and clamped to [0, width] x [0, height].
func (m *Mouse) Map(p detector.Point3D) image.Point {
	zone := m.ActiveZone()
	sw, sh := float64(m.config.ScreenWidth), float64(m.config.ScreenHeight)

	x := interp(p.X, float64(zone.Min.X), float64(zone.Max.X), 0, sw)
	y := interp(p.Y, float64(zone.Min.Y), float64(zone.Max.Y), 0, sh)

	x = clamp(sw/2+(x-sw/2)*m.config.Sensitivity, 0, sw)
	y = clamp(sh/2+(y-sh/2)*m.config.Sensitivity, 0, sh)

	return image.Pt(int(math.Round(x)), int(math.Round(y)))
}

// interp maps v from [x0, x1] onto [y0, y1], clamping outside the input range.
func interp(v, x0, x1, y0, y1 float64) float64 {
	if x1 <= x0 {
		return y0
	}
	if v <= x0 {
		return y0
	}
	if v >= x1 {
		return y1
	}
	return y0 + (v-x0)*(y1-y0)/(x1-x0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
