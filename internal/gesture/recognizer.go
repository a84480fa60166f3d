package gesture

import "github.com/ayusman/mudra/internal/detector"

// DefaultOKDistance is the thumb to index tip distance in pixels below which
// a hand with both fingers up reads as an OK sign.
const DefaultOKDistance = 40.0

// Recognizer maps a FingerState, plus optional landmarks, to a single Label.
//
// Rules are applied in priority order:
//  1. OK sign: thumb and index up with their tips closer than OKDistance.
//  2. Thumbs down: all fingers down with the thumb chain pointing downward.
//  3. The 32-entry pattern table.
//
// Without landmarks only the pattern table applies.
type Recognizer struct {
	OKDistance float64
}

// NewRecognizer creates a Recognizer. A non-positive okDistance selects DefaultOKDistance.
func NewRecognizer(okDistance float64) *Recognizer {
	if okDistance <= 0 {
		okDistance = DefaultOKDistance
	}
	return &Recognizer{OKDistance: okDistance}
}

// Recognize returns exactly one label for the given state.
func (r *Recognizer) Recognize(s FingerState, h *detector.Hand) Label {
	if h != nil {
		if s.Up(Thumb) && s.Up(Index) && h.Pinch() < r.OKDistance {
			return OK
		}
		if s.Pattern() == 0 && thumbPointsDown(h) {
			return ThumbsDown
		}
	}
	return LabelForPattern(s)
}

func thumbPointsDown(h *detector.Hand) bool {
	mcp := h.Points[detector.ThumbMCP]
	ip := h.Points[detector.ThumbIP]
	tip := h.Points[detector.ThumbTip]
	return tip.Y > ip.Y && ip.Y > mcp.Y
}
