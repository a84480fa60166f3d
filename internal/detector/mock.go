package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []Hand
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Synthetic pose geometry, in pixels of a 640x480 mirrored frame. The hand is
// a right hand with the palm towards the camera, so the thumb sits on the
// image's left side.
var (
	fingerX    = [4]float64{290, 315, 340, 362} // index, middle, ring, pinky
	fingerBase = [4]int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
)

// PoseLandmarks returns a right hand whose fingers are raised according to up,
// ordered thumb, index, middle, ring, pinky.
func PoseLandmarks(up [5]bool) Hand {
	h := Hand{
		Handedness: Right,
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 320, Y: 400}

	h.Points[ThumbCMC] = Point3D{X: 300, Y: 380}
	h.Points[ThumbMCP] = Point3D{X: 275, Y: 355}
	h.Points[ThumbIP] = Point3D{X: 255, Y: 335}
	if up[0] {
		h.Points[ThumbTip] = Point3D{X: 230, Y: 320}
	} else {
		h.Points[ThumbTip] = Point3D{X: 280, Y: 330}
	}

	for i, base := range fingerBase {
		x := fingerX[i]
		h.Points[base] = Point3D{X: x, Y: 300}
		if up[i+1] {
			h.Points[base+1] = Point3D{X: x, Y: 260}
			h.Points[base+2] = Point3D{X: x, Y: 230}
			h.Points[base+3] = Point3D{X: x, Y: 200}
		} else {
			h.Points[base+1] = Point3D{X: x, Y: 270}
			h.Points[base+2] = Point3D{X: x, Y: 285}
			h.Points[base+3] = Point3D{X: x, Y: 300}
		}
	}

	return h
}

// FistLandmarks returns a closed hand with the thumb folded across the palm.
func FistLandmarks() Hand {
	return PoseLandmarks([5]bool{})
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() Hand {
	return PoseLandmarks([5]bool{true, true, true, true, true})
}

// ThumbsUpLandmarks returns a hand with only the thumb extended.
func ThumbsUpLandmarks() Hand {
	return PoseLandmarks([5]bool{true, false, false, false, false})
}

// ThumbsDownLandmarks returns a closed hand whose thumb points straight down.
func ThumbsDownLandmarks() Hand {
	h := FistLandmarks()
	h.Points[ThumbMCP] = Point3D{X: 300, Y: 410}
	h.Points[ThumbIP] = Point3D{X: 300, Y: 440}
	h.Points[ThumbTip] = Point3D{X: 301, Y: 470}
	return h
}

// WithLandmark returns a copy of h with landmark i moved to p.
func WithLandmark(h Hand, i int, p Point3D) Hand {
	h.Points[i] = p
	return h
}

// Translate returns a copy of h shifted by dx, dy.
func Translate(h Hand, dx, dy float64) Hand {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
