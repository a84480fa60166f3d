package action

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/smooth"
)

// Swatch is one palette hit region.
type Swatch struct {
	Name   string
	Color  color.RGBA
	Box    image.Rectangle
	Eraser bool
}

// Palette returns the six swatches laid out along the header band.
func Palette() []Swatch {
	entries := []struct {
		name  string
		color color.RGBA
	}{
		{"Red", color.RGBA{R: 255, A: 255}},
		{"Green", color.RGBA{G: 255, A: 255}},
		{"Blue", color.RGBA{B: 255, A: 255}},
		{"Yellow", color.RGBA{R: 255, G: 255, A: 255}},
		{"White", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"Eraser", color.RGBA{A: 255}},
	}

	palette := make([]Swatch, len(entries))
	for i, e := range entries {
		x := 50 + i*120
		palette[i] = Swatch{
			Name:   e.name,
			Color:  e.color,
			Box:    image.Rect(x, 20, x+100, 80),
			Eraser: e.name == "Eraser",
		}
	}
	return palette
}

// PainterConfig holds virtual painter parameters.
type PainterConfig struct {
	Window int
	Header int // no drawing at or above this y
	Brush  int
	Eraser int
}

// DefaultPainterConfig returns the painter defaults.
func DefaultPainterConfig() PainterConfig {
	return PainterConfig{
		Window: 5,
		Header: 100,
		Brush:  10,
		Eraser: 50,
	}
}

// PainterMode describes what the painter did with the last frame.
type PainterMode string

const (
	PainterIdle      PainterMode = "Idle"
	PainterSelecting PainterMode = "Selection"
	PainterDrawing   PainterMode = "Drawing"
)

// defaultSwatch is blue.
const defaultSwatch = 2

// Painter draws with the index finger:
//   - index up alone extends the active stroke
//   - index and middle up selects a swatch under the fingertip
//   - anything else ends the stroke, so the next one starts disconnected
type Painter struct {
	config   PainterConfig
	palette  []Swatch
	current  int
	point    *smooth.PointWindow
	stroke   Toggle
	strokeID string
	last     image.Point
	mode     PainterMode
	tip      image.Point
}

// NewPainter creates a painter with blue selected.
func NewPainter(config PainterConfig) *Painter {
	return &Painter{
		config:  config,
		palette: Palette(),
		current: defaultSwatch,
		point:   smooth.NewPointWindow(config.Window),
		mode:    PainterIdle,
	}
}

// Palette returns the painter's swatches.
func (p *Painter) Palette() []Swatch { return p.palette }

// Current returns the selected swatch.
func (p *Painter) Current() Swatch { return p.palette[p.current] }

// Mode returns the mode of the last update.
func (p *Painter) Mode() PainterMode { return p.mode }

// Tip returns the raw index fingertip of the last update.
func (p *Painter) Tip() image.Point { return p.tip }

// Drawing reports whether a stroke is in progress.
func (p *Painter) Drawing() bool { return p.stroke.Active() }

// Config returns the effective configuration.
func (p *Painter) Config() PainterConfig { return p.config }

// Clear ends the active stroke. The canvas itself is cleared by the caller.
func (p *Painter) Clear() {
	p.endStroke()
}

// Update consumes one frame and returns at most one stroke segment.
func (p *Painter) Update(r *pipeline.HandResult, now time.Time) (Event, bool) {
	if r == nil {
		p.endStroke()
		p.mode = PainterIdle
		return Event{}, false
	}

	tip := r.Hand.Points[detector.IndexTip]
	p.tip = toPoint(tip)

	switch {
	case r.Fingers.Up(gesture.Index) && r.Fingers.Up(gesture.Middle):
		p.endStroke()
		p.mode = PainterSelecting
		p.selectAt(p.tip)
		return Event{}, false

	case r.Fingers.Up(gesture.Index) && tip.Y > float64(p.config.Header):
		p.mode = PainterDrawing
		return p.extend(tip, now), true

	default:
		p.endStroke()
		p.mode = PainterIdle
		return Event{}, false
	}
}

func (p *Painter) extend(tip detector.Point3D, now time.Time) Event {
	if p.stroke.Update(true) == Started {
		p.strokeID = uuid.NewString()
		p.point.Reset()
	}

	p.point.Push(tip)
	to := toPoint(p.point.Value())
	from := to
	if p.point.Len() > 1 {
		from = p.last
	}
	p.last = to

	swatch := p.Current()
	thickness := p.config.Brush
	if swatch.Eraser {
		thickness = p.config.Eraser
	}

	return Event{
		Kind: KindDraw,
		Time: now,
		Stroke: Stroke{
			ID:        p.strokeID,
			From:      from,
			To:        to,
			Color:     swatch.Color,
			Thickness: thickness,
			Erase:     swatch.Eraser,
		},
	}
}

func (p *Painter) endStroke() {
	if p.stroke.Update(false) == Ended {
		p.strokeID = ""
		p.point.Reset()
	}
}

// selectAt picks the swatch whose box strictly contains pt.
func (p *Painter) selectAt(pt image.Point) bool {
	for i, s := range p.palette {
		if pt.X > s.Box.Min.X && pt.X < s.Box.Max.X && pt.Y > s.Box.Min.Y && pt.Y < s.Box.Max.Y {
			p.current = i
			return true
		}
	}
	return false
}

func toPoint(p detector.Point3D) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}
