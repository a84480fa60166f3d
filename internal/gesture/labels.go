package gesture

// Label is a recognized gesture from the fixed taxonomy.
type Label string

const (
	Fist       Label = "fist"
	OpenPalm   Label = "open-palm"
	Peace      Label = "peace"
	ThumbsUp   Label = "thumbs-up"
	ThumbsDown Label = "thumbs-down"
	OK         Label = "ok"
	Rock       Label = "rock"
	Pointing   Label = "pointing"
	Three      Label = "three"
	Four       Label = "four"
	CallMe     Label = "call-me"
	FingerGun  Label = "finger-gun"
	Unknown    Label = "unknown"
)

// Labels returns the full taxonomy in display order.
func Labels() []Label {
	return []Label{
		Fist, OpenPalm, Peace, ThumbsUp, ThumbsDown, OK, Rock,
		Pointing, Three, Four, CallMe, FingerGun, Unknown,
	}
}

var titles = map[Label]string{
	Fist:       "Fist",
	OpenPalm:   "Open Palm",
	Peace:      "Peace Sign",
	ThumbsUp:   "Thumbs Up",
	ThumbsDown: "Thumbs Down",
	OK:         "OK Sign",
	Rock:       "Rock Sign",
	Pointing:   "Pointing",
	Three:      "Three Fingers",
	Four:       "Four Fingers",
	CallMe:     "Call Me",
	FingerGun:  "Finger Gun",
	Unknown:    "Unknown",
}

// Title returns the human readable name shown on the overlay.
func (l Label) Title() string {
	if t, ok := titles[l]; ok {
		return t
	}
	return string(l)
}

// Valid reports whether l belongs to the taxonomy.
func (l Label) Valid() bool {
	_, ok := titles[l]
	return ok
}

// patternTable maps every 5-bit finger pattern (thumb is the high bit) to its
// label. Landmark rules in Recognizer may override an entry.
var patternTable = [32]Label{
	0b00000: Fist,
	0b00001: Unknown,
	0b00010: Unknown,
	0b00011: Unknown,
	0b00100: Unknown,
	0b00101: Unknown,
	0b00110: Unknown,
	0b00111: Unknown,
	0b01000: Pointing,
	0b01001: Rock,
	0b01010: Unknown,
	0b01011: Unknown,
	0b01100: Peace,
	0b01101: Unknown,
	0b01110: Three,
	0b01111: Four,
	0b10000: ThumbsUp,
	0b10001: CallMe,
	0b10010: Unknown,
	0b10011: Unknown,
	0b10100: Unknown,
	0b10101: Unknown,
	0b10110: Unknown,
	0b10111: Unknown,
	0b11000: FingerGun,
	0b11001: Rock,
	0b11010: Unknown,
	0b11011: Unknown,
	0b11100: Unknown,
	0b11101: Unknown,
	0b11110: Unknown,
	0b11111: OpenPalm,
}

// LabelForPattern looks up the pattern-only label of s.
func LabelForPattern(s FingerState) Label {
	return patternTable[s.Pattern()&0b11111]
}
