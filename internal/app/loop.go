package app

import (
	"context"
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/pipeline"
)

// outcome of one controller step.
type outcome struct {
	dispatched bool
	ok         bool
	status     string
}

// controller is the per-mode part of the loop. Step receives the recognized
// frame and the camera image it may draw on.
type controller interface {
	Step(ctx context.Context, f pipeline.Frame, img *gocv.Mat, now time.Time) outcome
	Key(k overlay.Key)
	Close()
}

// loop runs frames until quit. Each iteration captures, detects, recognizes,
// applies at most one action, shows the frame and polls the keyboard.
func (a *App) loop(ctx context.Context, mode Mode, cfg config.Config, ctrl controller, res *Result) error {

	var source capture.FrameSource = a.opts.Camera
	if cfg.Camera.Prefetch {
		p := capture.NewPrefetcher(a.opts.Camera)
		p.Start(ctx)
		defer func() {
			p.Stop()
			if n := p.Dropped(); n > 0 {
				a.log.Debug().Uint64("dropped", n).Msg("prefetch dropped stale frames")
			}
		}()
		source = p
	}

	pipe := pipeline.New(PipelineConfig(cfg))

	for ctx.Err() == nil {
		frame, err := source.ReadFrame()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			a.log.Warn().Err(err).Msg("camera stream closed")
			return nil
		}

		quit := a.frame(ctx, pipe, ctrl, frame, mode.String(), res)
		frame.Close()
		if quit {
			return nil
		}

		if cfg.Pipeline.FrameDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(cfg.Pipeline.FrameDelay):
			}
		}
	}
	return nil
}

// frame processes one image and reports whether the user asked to quit.
func (a *App) frame(ctx context.Context, pipe *pipeline.Pipeline, ctrl controller, img *gocv.Mat, mode string, res *Result) bool {
	now := a.opts.Now()

	hands, err := a.opts.Detector.Detect(img)
	if err != nil {
		a.log.Warn().Err(err).Msg("detection failed")
		hands = nil
	}

	f := pipe.Process(hands)
	out := ctrl.Step(ctx, f, img, now)

	res.Frames++
	if out.dispatched {
		if out.ok {
			res.Actions++
		} else {
			res.Failures++
		}
	}
	a.frames.Add(ctx, 1)

	gestureName := ""
	if f.Primary != nil {
		gestureName = string(f.Primary.Stable)
	}
	a.setStatus(func(s *Status) {
		s.Frames = res.Frames
		s.Gesture = gestureName
		s.Detail = out.status
	})

	if a.opts.Hub != nil {
		if err := a.opts.Hub.Publish(f.Summarize(mode)); err != nil {
			a.log.Debug().Err(err).Msg("summary not published")
		}
	}

	a.log.Debug().
		Uint64("seq", f.Seq).
		Int("hands", len(f.Hands)).
		Str("gesture", gestureName).
		Str("detail", out.status).
		Msg("frame")

	switch key := a.opts.Display.Show(*img); key {
	case overlay.KeyQuit:
		return true
	case overlay.KeyNone:
	default:
		ctrl.Key(key)
	}
	return false
}
