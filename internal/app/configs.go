package app

import (
	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pipeline"
)

// CameraConfig converts the camera section.
func CameraConfig(c config.Config) capture.Config {
	return capture.Config{
		Device: c.Camera.Device,
		Width:  c.Camera.Width,
		Height: c.Camera.Height,
		FPS:    c.Camera.FPS,
		Mirror: c.Camera.Mirror,
	}
}

// DetectorConfig converts the detector section.
func DetectorConfig(c config.Config) detector.Config {
	return detector.Config{
		MaxHands:        c.Detector.MaxHands,
		MinConfidence:   c.Detector.MinDetection,
		MinTrackingConf: c.Detector.MinTracking,
		Script:          c.Detector.Script,
		Python:          c.Detector.Python,
	}
}

// PipelineConfig converts the fingers, gesture and pipeline sections. The hand
// policy was validated on load; an unknown value falls back to first.
func PipelineConfig(c config.Config) pipeline.Config {
	policy, err := pipeline.ParseHandPolicy(c.Pipeline.HandPolicy)
	if err != nil {
		policy = pipeline.PolicyFirst
	}
	return pipeline.Config{
		Fingers: gesture.ClassifierConfig{
			Epsilon:       c.Fingers.Epsilon,
			MinConfidence: c.Fingers.MinConfidence,
		},
		OKDistance:    c.Gesture.OKDistance,
		GestureWindow: c.Gesture.Window,
		HandPolicy:    policy,
	}
}

// MouseConfig converts the mouse section. A zero screen size keeps the
// default until the backend reports one.
func MouseConfig(c config.Config) action.MouseConfig {
	m := action.DefaultMouseConfig()
	m.FrameWidth = c.Camera.Width
	m.FrameHeight = c.Camera.Height
	if c.Mouse.ScreenWidth > 0 && c.Mouse.ScreenHeight > 0 {
		m.ScreenWidth = c.Mouse.ScreenWidth
		m.ScreenHeight = c.Mouse.ScreenHeight
	}
	m.Margin = c.Mouse.Margin
	m.Sensitivity = c.Mouse.Sensitivity
	m.ClickDistance = c.Mouse.ClickDistance
	m.ClickCooldown = c.Mouse.ClickCooldown
	m.Window = c.Mouse.Window
	m.ScrollThreshold = c.Mouse.ScrollThreshold
	m.ScrollDivisor = c.Mouse.ScrollDivisor
	return m
}

// VolumeConfig converts the volume section.
func VolumeConfig(c config.Config) action.VolumeConfig {
	return action.VolumeConfig{
		MinDistance: c.Volume.MinDistance,
		MaxDistance: c.Volume.MaxDistance,
		Window:      c.Volume.Window,
		MinChange:   c.Volume.MinChange,
		Initial:     c.Volume.Initial,
	}
}

// PainterConfig converts the painter section.
func PainterConfig(c config.Config) action.PainterConfig {
	return action.PainterConfig{
		Window: c.Painter.Window,
		Header: c.Painter.Header,
		Brush:  c.Painter.Brush,
		Eraser: c.Painter.Eraser,
	}
}
