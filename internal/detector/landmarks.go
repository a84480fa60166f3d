// Package detector provides the hand landmark model and the landmark provider boundary.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Connections lists landmark index pairs forming the hand skeleton.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Handedness identifies which hand the provider believes it saw.
type Handedness string

const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// Point3D is a landmark position. X and Y are pixels once a hand has been
// scaled to its frame; Z is relative depth and is ignored by the 2D logic.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is one detected hand: 21 landmarks, handedness and detection confidence.
// A Hand lives for a single frame.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
	Score      float64               `json:"score"`
}

// Distance returns the Euclidean distance between two landmarks in the image
// plane. Results are in pixels for scaled hands, so thresholds depend on the
// camera resolution.
func Distance(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Distance returns the image-plane distance between landmarks i and j.
func (h *Hand) Distance(i, j int) float64 {
	return Distance(h.Points[i], h.Points[j])
}

// Pinch returns the thumb tip to index tip distance.
func (h *Hand) Pinch() float64 {
	return h.Distance(ThumbTip, IndexTip)
}

// Scaled returns a copy of h with normalized [0,1] coordinates converted to
// pixel coordinates of a width x height frame.
func (h Hand) Scaled(width, height int) Hand {
	w, ht := float64(width), float64(height)
	for i := range h.Points {
		h.Points[i].X *= w
		h.Points[i].Y *= ht
	}
	return h
}
