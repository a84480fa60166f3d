package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrServiceNotFound is returned when the MediaPipe service script cannot be located.
var ErrServiceNotFound = errors.New("mediapipe service not found")

// Detector defines the landmark provider boundary.
type Detector interface {
	// Detect analyzes a video frame and returns detected hands in pixel
	// coordinates of that frame. Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Script overrides the mediapipe_service.py lookup.
	Script string

	// Python overrides the interpreter lookup.
	Python string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}
