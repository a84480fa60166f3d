// Package pipeline composes the per-frame recognition steps: finger-state
// classification, gesture recognition and per-hand label smoothing.
package pipeline

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/smooth"
)

// DefaultGestureWindow is the number of frames the label vote spans.
const DefaultGestureWindow = 5

// HandPolicy selects which hand drives single-cursor actions when several are visible.
type HandPolicy string

const (
	// PolicyFirst uses the first confident hand reported by the detector.
	PolicyFirst HandPolicy = "first"
	// PolicyLeft uses the first confident left hand.
	PolicyLeft HandPolicy = "left"
	// PolicyRight uses the first confident right hand.
	PolicyRight HandPolicy = "right"
)

// ParseHandPolicy validates a policy name.
func ParseHandPolicy(s string) (HandPolicy, error) {
	switch p := HandPolicy(s); p {
	case PolicyFirst, PolicyLeft, PolicyRight:
		return p, nil
	case "":
		return PolicyFirst, nil
	default:
		return "", fmt.Errorf("unknown hand policy %q", s)
	}
}

// Config holds pipeline options.
type Config struct {
	Fingers       gesture.ClassifierConfig
	OKDistance    float64
	GestureWindow int
	HandPolicy    HandPolicy
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Fingers:       gesture.DefaultClassifierConfig(),
		OKDistance:    gesture.DefaultOKDistance,
		GestureWindow: DefaultGestureWindow,
		HandPolicy:    PolicyFirst,
	}
}

// HandResult is the recognition output for one confident hand.
type HandResult struct {
	Hand    detector.Hand
	Fingers gesture.FingerState
	Raw     gesture.Label // this frame's label
	Stable  gesture.Label // label after the majority vote
}

// Frame is the result of processing one frame.
type Frame struct {
	Seq     uint64
	Hands   []HandResult
	Primary *HandResult // nil when no hand matches the policy
	Skipped int         // hands dropped for low confidence
}

// track is the smoothing state of one physical hand across frames.
type track struct {
	handedness detector.Handedness
	wrist      detector.Point3D
	vote       *smooth.Vote[gesture.Label]
}

// Pipeline turns detected hands into recognized gestures. Each physical hand
// keeps its own vote window: a hand is matched to the track of the same
// handedness whose last wrist position is nearest. A Pipeline is owned by a
// single loop and is not safe for concurrent use.
type Pipeline struct {
	config     Config
	classifier *gesture.Classifier
	recognizer *gesture.Recognizer
	tracks     []*track
	seq        uint64
}

// New creates a Pipeline with fresh smoothing state.
func New(config Config) *Pipeline {
	if config.GestureWindow < 1 {
		config.GestureWindow = DefaultGestureWindow
	}
	if config.HandPolicy == "" {
		config.HandPolicy = PolicyFirst
	}
	return &Pipeline{
		config:     config,
		classifier: gesture.NewClassifier(config.Fingers),
		recognizer: gesture.NewRecognizer(config.OKDistance),
	}
}

// Process classifies and recognizes every confident hand. Zero hands is a
// normal frame and yields an empty result.
func (p *Pipeline) Process(hands []detector.Hand) Frame {
	p.seq++
	frame := Frame{Seq: p.seq}
	claimed := make(map[*track]bool, len(hands))

	for i := range hands {
		hand := &hands[i]

		fingers, ok := p.classifier.Classify(hand)
		if !ok {
			frame.Skipped++
			continue
		}

		raw := p.recognizer.Recognize(fingers, hand)
		frame.Hands = append(frame.Hands, HandResult{
			Hand:    *hand,
			Fingers: fingers,
			Raw:     raw,
			Stable:  p.trackFor(hand, claimed).vote.Push(raw),
		})
	}

	frame.Primary = p.selectPrimary(frame.Hands)
	return frame
}

// Reset drops all smoothing history.
func (p *Pipeline) Reset() {
	p.tracks = nil
}

// trackFor returns the nearest unclaimed track for hand, creating one when every
// track of its handedness is already taken this frame. Tracks of hands that
// left the frame are kept so a brief dropout does not reset their vote.
func (p *Pipeline) trackFor(hand *detector.Hand, claimed map[*track]bool) *track {
	wrist := hand.Points[detector.Wrist]

	var best *track
	bestDist := 0.0
	for _, t := range p.tracks {
		if claimed[t] || t.handedness != hand.Handedness {
			continue
		}
		if d := detector.Distance(t.wrist, wrist); best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	if best == nil {
		best = &track{
			handedness: hand.Handedness,
			vote:       smooth.NewVote[gesture.Label](p.config.GestureWindow),
		}
		p.tracks = append(p.tracks, best)
	}

	best.wrist = wrist
	claimed[best] = true
	return best
}

func (p *Pipeline) selectPrimary(results []HandResult) *HandResult {
	for i := range results {
		switch p.config.HandPolicy {
		case PolicyLeft:
			if results[i].Hand.Handedness != detector.Left {
				continue
			}
		case PolicyRight:
			if results[i].Hand.Handedness != detector.Right {
				continue
			}
		}
		return &results[i]
	}
	return nil
}
