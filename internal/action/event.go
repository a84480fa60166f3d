// Package action turns recognized gestures into debounced side effects on the
// desktop: cursor movement, clicks, scrolling, volume and drawing.
package action

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// Kind identifies an action event.
type Kind string

const (
	KindMove   Kind = "move"
	KindClick  Kind = "click"
	KindScroll Kind = "scroll"
	KindVolume Kind = "volume_set"
	KindDraw   Kind = "draw_stroke"
)

// Discrete reports whether events of this kind are worth journaling.
// Moves and stroke segments fire every frame and are not.
func (k Kind) Discrete() bool {
	switch k {
	case KindClick, KindScroll, KindVolume:
		return true
	default:
		return false
	}
}

// Button is a mouse button.
type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// Stroke is one painter segment. A segment whose From equals To starts a new
// stroke; segments sharing an ID form one connected line.
type Stroke struct {
	ID        string
	From      image.Point
	To        image.Point
	Color     color.RGBA
	Thickness int
	Erase     bool
}

// Event is a single action produced by a dispatcher for one frame.
type Event struct {
	Kind    Kind
	Time    time.Time
	X, Y    int    // move target or click position in screen pixels
	Button  Button // click
	Delta   int    // scroll, positive is up
	Percent int    // volume
	Stroke  Stroke // draw
}

// Detail returns a short description used by the journal.
func (e Event) Detail() string {
	switch e.Kind {
	case KindMove:
		return fmt.Sprintf("%d,%d", e.X, e.Y)
	case KindClick:
		return fmt.Sprintf("%s@%d,%d", e.Button, e.X, e.Y)
	case KindScroll:
		return fmt.Sprintf("%d", e.Delta)
	case KindVolume:
		return fmt.Sprintf("%d%%", e.Percent)
	case KindDraw:
		return fmt.Sprintf("%s %v-%v", e.Stroke.ID, e.Stroke.From, e.Stroke.To)
	default:
		return ""
	}
}
