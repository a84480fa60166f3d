package gesture

import (
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestFingerState_Pattern(t *testing.T) {
	tests := []struct {
		name  string
		state FingerState
		want  uint8
	}{
		{"all down", FingerState{}, 0},
		{"all up", FingerState{true, true, true, true, true}, 31},
		{"peace", FingerState{false, true, true, false, false}, 0b01100},
		{"thumb only", FingerState{true, false, false, false, false}, 0b10000},
		{"pinky only", FingerState{false, false, false, false, true}, 0b00001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Pattern(); got != tt.want {
				t.Errorf("Pattern() = %05b, want %05b", got, tt.want)
			}
			if back := FingerStateFromPattern(tt.want); back != tt.state {
				t.Errorf("FingerStateFromPattern(%05b) = %v, want %v", tt.want, back, tt.state)
			}
		})
	}
}

func TestFingerState_CountAndString(t *testing.T) {
	s := FingerState{false, true, true, false, true}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}
	if s.String() != "01101" {
		t.Errorf("String() = %q, want %q", s.String(), "01101")
	}
	if Index.Initial() != "I" || Pinky.String() != "Pinky" {
		t.Errorf("unexpected finger names %q %q", Index.Initial(), Pinky.String())
	}
}

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(DefaultClassifierConfig())

	tests := []struct {
		name string
		up   [5]bool
	}{
		{"fist", [5]bool{}},
		{"open palm", [5]bool{true, true, true, true, true}},
		{"peace", [5]bool{false, true, true, false, false}},
		{"thumbs up", [5]bool{true, false, false, false, false}},
		{"rock", [5]bool{false, true, false, false, true}},
		{"four", [5]bool{false, true, true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := detector.PoseLandmarks(tt.up)
			state, ok := classifier.Classify(&hand)
			if !ok {
				t.Fatal("expected a finger state for a confident hand")
			}
			if state != FingerState(tt.up) {
				t.Errorf("Classify() = %s, want %s", state, FingerState(tt.up))
			}
		})
	}
}

func TestClassifier_Thresholds(t *testing.T) {
	classifier := NewClassifier(DefaultClassifierConfig())

	t.Run("low confidence is skipped", func(t *testing.T) {
		hand := detector.OpenPalmLandmarks()
		hand.Score = 0.5
		if _, ok := classifier.Classify(&hand); ok {
			t.Error("expected low confidence hand to be skipped")
		}
	})

	t.Run("nil hand is skipped", func(t *testing.T) {
		if _, ok := classifier.Classify(nil); ok {
			t.Error("expected nil hand to be skipped")
		}
	})

	t.Run("near-straight finger within epsilon reads down", func(t *testing.T) {
		hand := detector.FistLandmarks()
		pip := hand.Points[detector.IndexPIP]
		hand = detector.WithLandmark(hand, detector.IndexTip, detector.Point3D{X: pip.X, Y: pip.Y - 3})

		state, _ := classifier.Classify(&hand)
		if state.Up(Index) {
			t.Error("tip 3px above the joint should not count as up with epsilon 5")
		}
	})

	t.Run("left hand mirrors the thumb test", func(t *testing.T) {
		hand := detector.FistLandmarks()
		hand.Handedness = detector.Left
		ip := hand.Points[detector.ThumbIP]
		hand = detector.WithLandmark(hand, detector.ThumbTip, detector.Point3D{X: ip.X + 30, Y: ip.Y})

		state, _ := classifier.Classify(&hand)
		if !state.Up(Thumb) {
			t.Error("left thumb extended to the right should be up")
		}

		hand.Handedness = detector.Right
		state, _ = classifier.Classify(&hand)
		if state.Up(Thumb) {
			t.Error("right thumb extended to the right should be down")
		}
	})
}

func TestLabelForPattern_Total(t *testing.T) {
	valid := make(map[Label]bool)
	for _, l := range Labels() {
		valid[l] = true
	}

	for p := 0; p < 32; p++ {
		label := LabelForPattern(FingerStateFromPattern(uint8(p)))
		if !valid[label] {
			t.Errorf("pattern %05b mapped to %q which is not in the taxonomy", p, label)
		}
	}
}

func TestLabelForPattern_Entries(t *testing.T) {
	tests := []struct {
		pattern uint8
		want    Label
	}{
		{0b00000, Fist},
		{0b11111, OpenPalm},
		{0b01100, Peace},
		{0b10000, ThumbsUp},
		{0b01001, Rock},
		{0b11001, Rock},
		{0b01000, Pointing},
		{0b01110, Three},
		{0b01111, Four},
		{0b10001, CallMe},
		{0b11000, FingerGun},
		{0b00110, Unknown},
		{0b10101, Unknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			if got := LabelForPattern(FingerStateFromPattern(tt.pattern)); got != tt.want {
				t.Errorf("pattern %05b = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestRecognizer_OKOverridesFingerGun(t *testing.T) {
	recognizer := NewRecognizer(0)
	state := FingerState{true, true, false, false, false}

	hand := detector.PoseLandmarks([5]bool(state))
	index := hand.Points[detector.IndexTip]

	near := detector.WithLandmark(hand, detector.ThumbTip, detector.Point3D{X: index.X - 10, Y: index.Y})
	if got := recognizer.Recognize(state, &near); got != OK {
		t.Errorf("distance 10px: got %q, want %q", got, OK)
	}

	far := detector.WithLandmark(hand, detector.ThumbTip, detector.Point3D{X: index.X - 100, Y: index.Y})
	if got := recognizer.Recognize(state, &far); got != FingerGun {
		t.Errorf("distance 100px: got %q, want %q", got, FingerGun)
	}
}

func TestRecognizer_LandmarkRules(t *testing.T) {
	recognizer := NewRecognizer(DefaultOKDistance)
	classifier := NewClassifier(DefaultClassifierConfig())

	tests := []struct {
		name string
		hand detector.Hand
		want Label
	}{
		{"fist", detector.FistLandmarks(), Fist},
		{"thumbs down", detector.ThumbsDownLandmarks(), ThumbsDown},
		{"thumbs up", detector.ThumbsUpLandmarks(), ThumbsUp},
		{"open palm", detector.OpenPalmLandmarks(), OpenPalm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, ok := classifier.Classify(&tt.hand)
			if !ok {
				t.Fatal("expected a finger state")
			}
			if got := recognizer.Recognize(state, &tt.hand); got != tt.want {
				t.Errorf("Recognize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecognizer_WithoutLandmarks(t *testing.T) {
	recognizer := NewRecognizer(DefaultOKDistance)
	if got := recognizer.Recognize(FingerState{true, true, false, false, false}, nil); got != FingerGun {
		t.Errorf("without landmarks the table applies, got %q", got)
	}
}

func TestLabel_Title(t *testing.T) {
	if Peace.Title() != "Peace Sign" {
		t.Errorf("Title() = %q", Peace.Title())
	}
	if Label("wave").Valid() {
		t.Error("wave is not part of the taxonomy")
	}
}
