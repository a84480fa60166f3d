// Package gesture provides finger-state classification and gesture recognition.
package gesture

import (
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

// Finger identifies one slot of a FingerState.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

var fingerNames = [5]string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

// String returns the finger's display name.
func (f Finger) String() string {
	if f < Thumb || f > Pinky {
		return "Unknown"
	}
	return fingerNames[f]
}

// Initial returns the single-letter abbreviation used by the overlay.
func (f Finger) Initial() string {
	return f.String()[:1]
}

// FingerState is the up/down vector ordered thumb, index, middle, ring, pinky.
// It is a value type; a new one is produced every frame.
type FingerState [5]bool

// Up reports whether finger f is extended.
func (s FingerState) Up(f Finger) bool {
	return s[f]
}

// Count returns the number of extended fingers.
func (s FingerState) Count() int {
	n := 0
	for _, up := range s {
		if up {
			n++
		}
	}
	return n
}

// Pattern packs the state into 5 bits with the thumb as the most significant
// bit, so [0,1,1,0,0] is 0b01100.
func (s FingerState) Pattern() uint8 {
	var p uint8
	for _, up := range s {
		p <<= 1
		if up {
			p |= 1
		}
	}
	return p
}

// FingerStateFromPattern is the inverse of Pattern. Bits above the fifth are ignored.
func FingerStateFromPattern(p uint8) FingerState {
	var s FingerState
	for i := range s {
		s[i] = p&(1<<(4-i)) != 0
	}
	return s
}

// String renders the state as five binary digits, e.g. "01100".
func (s FingerState) String() string {
	var b strings.Builder
	for _, up := range s {
		if up {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ClassifierConfig holds the finger-state thresholds.
type ClassifierConfig struct {
	// Epsilon is the margin in pixels a tip must clear its joint by to count as up.
	Epsilon float64

	// MinConfidence is the lowest hand score that produces a FingerState.
	MinConfidence float64
}

// DefaultClassifierConfig returns the thresholds tuned for a 1280x720 camera.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Epsilon:       5,
		MinConfidence: 0.7,
	}
}

// Classifier converts hand landmarks into a FingerState.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a Classifier.
func NewClassifier(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

var fingerTips = [4]int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}

// Classify returns the finger state of h. The second result is false when the
// hand is nil or below the confidence threshold, in which case the hand must
// be skipped for this frame.
func (c *Classifier) Classify(h *detector.Hand) (FingerState, bool) {
	var s FingerState
	if h == nil || h.Score < c.config.MinConfidence {
		return s, false
	}

	eps := c.config.Epsilon
	tip, ip := h.Points[detector.ThumbTip], h.Points[detector.ThumbIP]

	// The thumb extends sideways, and a left hand mirrors the direction.
	if h.Handedness == detector.Left {
		s[Thumb] = tip.X > ip.X+eps
	} else {
		s[Thumb] = tip.X < ip.X-eps
	}

	for i, t := range fingerTips {
		// PIP joint sits two landmarks below the tip.
		s[Index+Finger(i)] = h.Points[t].Y < h.Points[t-2].Y-eps
	}

	return s, true
}
