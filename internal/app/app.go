// Package app runs the mudra application loops: it captures frames, feeds them
// through the recognition pipeline and the per-mode action controller, draws
// the overlay and applies the resulting actions.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

const instrumentationName = "github.com/ayusman/mudra/internal/app"

// Mode selects one of the application loops.
type Mode int

const (
	ModeDetect Mode = iota + 1
	ModeGestures
	ModeVolume
	ModeMouse
	ModePainter
)

// Modes returns the runnable modes in menu order.
func Modes() []Mode {
	return []Mode{ModeDetect, ModeGestures, ModeVolume, ModeMouse, ModePainter}
}

func (m Mode) String() string {
	switch m {
	case ModeDetect:
		return "detect"
	case ModeGestures:
		return "gestures"
	case ModeVolume:
		return "volume"
	case ModeMouse:
		return "mouse"
	case ModePainter:
		return "painter"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Title is the menu and window caption for the mode.
func (m Mode) Title() string {
	switch m {
	case ModeDetect:
		return "Hand Detection Test"
	case ModeGestures:
		return "Gesture Recognition"
	case ModeVolume:
		return "Volume Control"
	case ModeMouse:
		return "Virtual Mouse"
	case ModePainter:
		return "Virtual Painter"
	default:
		return m.String()
	}
}

// Valid reports whether m is a runnable mode.
func (m Mode) Valid() bool {
	return m >= ModeDetect && m <= ModePainter
}

// Options wires an App. Camera, Detector and Display are required; the rest
// are optional.
type Options struct {
	Config   config.Config
	Camera   capture.Camera
	Detector detector.Detector
	Display  overlay.Display
	Desktop  action.Desktop
	Mixer    action.Mixer
	Store    *store.Store
	Hub      *server.Hub
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Status is the live state reported on /api/status.
type Status struct {
	Running   bool   `json:"running"`
	Mode      string `json:"mode,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Frames    int    `json:"frames"`
	Gesture   string `json:"gesture,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// Result summarizes a finished run.
type Result struct {
	Mode      Mode
	SessionID string
	Frames    int
	Actions   int
	Failures  int
}

// App runs one mode at a time.
type App struct {
	opts   Options
	log    zerolog.Logger
	frames metric.Int64Counter

	mu     sync.RWMutex
	status Status
}

// New validates opts and creates an App.
func New(opts Options) (*App, error) {
	if opts.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if opts.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if opts.Display == nil {
		return nil, errors.New("app: display is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	frames, err := otel.Meter(instrumentationName).Int64Counter(
		"mudra.frames",
		metric.WithDescription("Total frames processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	return &App{
		opts:   opts,
		log:    opts.Logger.With().Str("component", "app").Logger(),
		frames: frames,
	}, nil
}

// Status returns a snapshot of the running loop.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *App) setStatus(fn func(*Status)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.status)
}

// Run executes mode until the user quits, ctx is cancelled or the camera
// stream ends. A camera that cannot be opened is reported as an error that
// wraps capture.ErrCameraUnavailable; everything after that is handled inside
// the loop.
func (a *App) Run(ctx context.Context, mode Mode) (Result, error) {
	if !mode.Valid() {
		return Result{}, fmt.Errorf("unknown mode %d", int(mode))
	}
	res := Result{Mode: mode}

	cam := a.opts.Camera
	if err := cam.Open(); err != nil {
		if !errors.Is(err, capture.ErrCameraUnavailable) {
			err = fmt.Errorf("%w: %v", capture.ErrCameraUnavailable, err)
		}
		return res, err
	}
	defer cam.Close()

	var journal action.Journal
	if a.opts.Store != nil {
		sess, err := a.opts.Store.Sessions().Start(mode.String())
		if err != nil {
			a.log.Warn().Err(err).Msg("session not recorded")
		} else {
			res.SessionID = sess.ID
			journal = a.opts.Store.Journal(sess.ID)
			defer func() {
				if err := a.opts.Store.Sessions().End(sess.ID, res.Frames); err != nil {
					a.log.Warn().Err(err).Str("session", sess.ID).Msg("session end not recorded")
				}
			}()
		}
	}

	cfg := a.runConfig()
	ctrl, err := a.controller(ctx, mode, cfg, journal)
	if err != nil {
		return res, err
	}
	defer ctrl.Close()

	a.setStatus(func(s *Status) {
		*s = Status{Running: true, Mode: mode.String(), SessionID: res.SessionID}
	})
	defer a.setStatus(func(s *Status) { s.Running = false })

	a.log.Info().Str("mode", mode.String()).Str("session", res.SessionID).Msg("loop started")
	err = a.loop(ctx, mode, cfg, ctrl, &res)
	a.log.Info().
		Str("mode", mode.String()).
		Int("frames", res.Frames).
		Int("actions", res.Actions).
		Int("failures", res.Failures).
		Msg("loop stopped")
	return res, err
}

// runConfig applies stored settings over the configured values. A setting
// that is unknown or out of range is logged and skipped.
func (a *App) runConfig() config.Config {
	cfg := a.opts.Config
	if a.opts.Store == nil {
		return cfg
	}

	settings, err := a.opts.Store.Settings().All()
	if err != nil {
		a.log.Warn().Err(err).Msg("stored settings not applied")
		return cfg
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		next, err := cfg.WithSetting(k, settings[k])
		if err != nil {
			a.log.Warn().Err(err).Str("key", k).Msg("setting ignored")
			continue
		}
		a.log.Debug().Str("key", k).Str("value", settings[k]).Msg("setting applied")
		cfg = next
	}
	return cfg
}

func (a *App) controller(ctx context.Context, mode Mode, cfg config.Config, journal action.Journal) (controller, error) {
	switch mode {
	case ModeDetect:
		return &detectMode{}, nil
	case ModeGestures:
		return &gestureMode{}, nil
	}

	opts := action.Options{
		Desktop: a.opts.Desktop,
		Mixer:   a.opts.Mixer,
		Journal: journal,
		Logger:  a.opts.Logger,
	}

	switch mode {
	case ModeVolume:
		vol := action.NewVolume(VolumeConfig(cfg))
		if r, ok := a.opts.Mixer.(action.VolumeReader); ok {
			if pct, err := r.Volume(ctx); err == nil {
				vol.SetApplied(pct)
			} else {
				a.log.Warn().Err(err).Msg("current volume unknown")
			}
		}
		d, err := action.NewDispatcher(opts)
		if err != nil {
			return nil, err
		}
		return &volumeMode{volume: vol, dispatch: d}, nil

	case ModeMouse:
		mouse := action.NewMouse(MouseConfig(cfg))
		w, h := cfg.Mouse.ScreenWidth, cfg.Mouse.ScreenHeight
		if w == 0 || h == 0 {
			if s, ok := a.opts.Desktop.(action.ScreenSizer); ok {
				if sw, sh, err := s.ScreenSize(ctx); err == nil {
					w, h = sw, sh
				} else {
					a.log.Warn().Err(err).Msg("screen size unknown")
				}
			}
		}
		if w > 0 && h > 0 {
			mouse.SetScreenSize(w, h)
		}
		d, err := action.NewDispatcher(opts)
		if err != nil {
			return nil, err
		}
		return &mouseMode{mouse: mouse, dispatch: d}, nil

	case ModePainter:
		canvas := overlay.NewCanvas(cfg.Camera.Width, cfg.Camera.Height)
		opts.Canvas = canvas
		d, err := action.NewDispatcher(opts)
		if err != nil {
			canvas.Close()
			return nil, err
		}
		return &painterMode{painter: action.NewPainter(PainterConfig(cfg)), canvas: canvas, dispatch: d}, nil
	}
	return nil, fmt.Errorf("unknown mode %d", int(mode))
}
