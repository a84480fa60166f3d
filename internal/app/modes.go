package app

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/pipeline"
)

func drawHands(img *gocv.Mat, f pipeline.Frame) {
	for i := range f.Hands {
		overlay.Hand(img, &f.Hands[i].Hand)
	}
}

// detectMode shows the finger count and per-finger state.
type detectMode struct{}

func (m *detectMode) Step(_ context.Context, f pipeline.Frame, img *gocv.Mat, _ time.Time) outcome {
	drawHands(img, f)
	if f.Primary == nil {
		overlay.HUD(img, "Fingers: -", "No Hand")
		return outcome{status: "no hand"}
	}

	s := f.Primary.Fingers
	var up []string
	for fg := gesture.Thumb; fg <= gesture.Pinky; fg++ {
		state := "down"
		if s.Up(fg) {
			state = "up"
		}
		up = append(up, fmt.Sprintf("%s:%s", fg.Initial(), state))
	}
	overlay.HUD(img,
		fmt.Sprintf("Fingers: %d", s.Count()),
		strings.Join(up, " "),
	)
	overlay.Fingers(img, s, image.Pt(40, img.Rows()-60))
	return outcome{status: s.String()}
}

func (m *detectMode) Key(overlay.Key) {}
func (m *detectMode) Close()          {}

// gestureMode shows the stable gesture label of the primary hand.
type gestureMode struct{}

func (m *gestureMode) Step(_ context.Context, f pipeline.Frame, img *gocv.Mat, _ time.Time) outcome {
	drawHands(img, f)
	if f.Primary == nil {
		overlay.HUD(img, "Gesture: -")
		return outcome{status: "no hand"}
	}
	r := f.Primary
	overlay.HUD(img,
		"Gesture: "+r.Stable.Title(),
		fmt.Sprintf("Fingers: %s (%d)", r.Fingers, r.Fingers.Count()),
	)
	return outcome{status: string(r.Stable)}
}

func (m *gestureMode) Key(overlay.Key) {}
func (m *gestureMode) Close()          {}

// volumeMode maps the pinch distance to the system volume.
type volumeMode struct {
	volume   *action.Volume
	dispatch *action.Dispatcher
}

func (m *volumeMode) Step(ctx context.Context, f pipeline.Frame, img *gocv.Mat, now time.Time) outcome {
	drawHands(img, f)

	var out outcome
	ev, ok := m.volume.Update(f.Primary, now)
	if ok {
		out.dispatched = true
		out.ok = m.dispatch.Dispatch(ctx, ev)
	}

	if f.Primary != nil {
		overlay.Pinch(img, &f.Primary.Hand)
	}
	overlay.VolumeBar(img, m.volume.Applied())
	overlay.HUD(img,
		fmt.Sprintf("Volume: %d%%", m.volume.Applied()),
		fmt.Sprintf("Distance: %.0f", m.volume.Distance()),
	)
	out.status = fmt.Sprintf("%d%%", m.volume.Applied())
	return out
}

func (m *volumeMode) Key(overlay.Key) {}
func (m *volumeMode) Close()          {}

// mouseMode drives the pointer.
type mouseMode struct {
	mouse    *action.Mouse
	dispatch *action.Dispatcher
}

func (m *mouseMode) Step(ctx context.Context, f pipeline.Frame, img *gocv.Mat, now time.Time) outcome {
	cfg := m.mouse.Config()
	if cfg.FrameWidth != img.Cols() || cfg.FrameHeight != img.Rows() {
		m.mouse.SetFrameSize(img.Cols(), img.Rows())
	}

	drawHands(img, f)

	var out outcome
	ev, ok := m.mouse.Update(f.Primary, now)
	if ok {
		out.dispatched = true
		out.ok = m.dispatch.Dispatch(ctx, ev)
	}

	overlay.Zone(img, m.mouse.ActiveZone())
	status := string(m.mouse.Mode())
	if f.Primary != nil && m.mouse.Mode() != action.MouseScrolling {
		overlay.Pointer(img, f.Primary.Hand.Points[detector.IndexTip], overlay.Magenta)
	}
	overlay.HUD(img, "Mode: "+status)
	out.status = status
	return out
}

func (m *mouseMode) Key(overlay.Key) {}
func (m *mouseMode) Close()          {}

// painterMode draws strokes with the index finger.
type painterMode struct {
	painter  *action.Painter
	canvas   *overlay.Canvas
	dispatch *action.Dispatcher
}

func (m *painterMode) Step(ctx context.Context, f pipeline.Frame, img *gocv.Mat, now time.Time) outcome {
	if m.canvas.Fit(img.Cols(), img.Rows()) {
		m.painter.Clear()
	}

	var out outcome
	ev, ok := m.painter.Update(f.Primary, now)
	if ok {
		out.dispatched = true
		out.ok = m.dispatch.Dispatch(ctx, ev)
	}

	if err := m.canvas.Merge(img); err != nil {
		out.status = err.Error()
	}

	drawHands(img, f)
	current := m.painter.Current()
	overlay.Palette(img, m.painter.Palette(), current.Name, m.painter.Config().Header)
	if f.Primary != nil {
		overlay.Pointer(img, f.Primary.Hand.Points[detector.IndexTip], current.Color)
	}
	overlay.Status(img, fmt.Sprintf("%s | %s | c clear, q quit", m.painter.Mode(), current.Name))
	if out.status == "" {
		out.status = string(m.painter.Mode())
	}
	return out
}

func (m *painterMode) Key(k overlay.Key) {
	if k == overlay.KeyClear {
		m.painter.Clear()
		m.canvas.Clear()
	}
}

func (m *painterMode) Close() {
	m.canvas.Close()
}
