// Package overlay draws the hand skeleton, mode HUD and controls onto camera
// frames and hosts the painter canvas and the preview window.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

var (
	Green   = color.RGBA{G: 255, A: 255}
	Red     = color.RGBA{R: 255, A: 255}
	Blue    = color.RGBA{B: 255, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black   = color.RGBA{A: 255}
	Magenta = color.RGBA{R: 255, B: 255, A: 255}
	Gray    = color.RGBA{R: 60, G: 60, B: 60, A: 255}
)

const font = gocv.FontHersheySimplex

func pt(p detector.Point3D) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Hand draws the skeleton connections and a dot on every landmark.
func Hand(img *gocv.Mat, h *detector.Hand) {
	if h == nil {
		return
	}
	for _, c := range detector.Connections {
		gocv.Line(img, pt(h.Points[c[0]]), pt(h.Points[c[1]]), Green, 2)
	}
	for i := range h.Points {
		gocv.Circle(img, pt(h.Points[i]), 4, Red, -1)
	}
}

// Text writes one line with its baseline at org.
func Text(img *gocv.Mat, text string, org image.Point, c color.RGBA) {
	gocv.PutText(img, text, org, font, 0.8, c, 2)
}

// HUD stacks lines in the top-left corner over a dark backing box.
func HUD(img *gocv.Mat, lines ...string) {
	if len(lines) == 0 {
		return
	}
	width := 0
	for _, l := range lines {
		size := gocv.GetTextSize(l, font, 0.8, 2)
		width = max(width, size.X)
	}
	gocv.Rectangle(img, image.Rect(5, 5, 25+width, 15+30*len(lines)), Gray, -1)
	for i, l := range lines {
		Text(img, l, image.Pt(15, 32+30*i), White)
	}
}

// Status writes a single line at the bottom-left of the frame.
func Status(img *gocv.Mat, text string) {
	Text(img, text, image.Pt(15, img.Rows()-20), Green)
}

// Fingers draws one indicator per finger starting at org, green when up.
func Fingers(img *gocv.Mat, s gesture.FingerState, org image.Point) {
	for f := gesture.Thumb; f <= gesture.Pinky; f++ {
		c := Red
		if s.Up(f) {
			c = Green
		}
		center := org.Add(image.Pt(int(f)*50, 0))
		gocv.Circle(img, center, 15, c, -1)
		gocv.PutText(img, f.Initial(), center.Add(image.Pt(-7, 7)), font, 0.6, Black, 2)
	}
}

// Zone outlines the mouse active zone.
func Zone(img *gocv.Mat, r image.Rectangle) {
	gocv.Rectangle(img, r, Magenta, 2)
}

// Pointer marks a fingertip position.
func Pointer(img *gocv.Mat, p detector.Point3D, c color.RGBA) {
	gocv.Circle(img, pt(p), 10, c, -1)
}

// Pinch draws the thumb-index line with its midpoint.
func Pinch(img *gocv.Mat, h *detector.Hand) {
	if h == nil {
		return
	}
	a, b := pt(h.Points[detector.ThumbTip]), pt(h.Points[detector.IndexTip])
	gocv.Line(img, a, b, Magenta, 3)
	gocv.Circle(img, a, 8, Magenta, -1)
	gocv.Circle(img, b, 8, Magenta, -1)
	gocv.Circle(img, image.Pt((a.X+b.X)/2, (a.Y+b.Y)/2), 8, Green, -1)
}

// Volume bar geometry.
const (
	barLeft   = 50
	barRight  = 85
	barTop    = 150
	barBottom = 400
)

// VolumeBar draws the vertical level bar filled to pct percent.
func VolumeBar(img *gocv.Mat, pct int) {
	pct = min(max(pct, 0), 100)
	fill := barBottom - (barBottom-barTop)*pct/100
	gocv.Rectangle(img, image.Rect(barLeft, barTop, barRight, barBottom), Green, 3)
	if pct > 0 {
		gocv.Rectangle(img, image.Rect(barLeft, fill, barRight, barBottom), Green, -1)
	}
	Text(img, fmt.Sprintf("%d %%", pct), image.Pt(40, barBottom+50), Green)
}

// Palette draws the painter swatches along the header band. The selected
// swatch gets a white frame.
func Palette(img *gocv.Mat, swatches []action.Swatch, current string, header int) {
	for _, s := range swatches {
		fill := s.Color
		if s.Eraser {
			fill = Gray
		}
		gocv.Rectangle(img, s.Box, fill, -1)
		label := Black
		if s.Eraser || s.Color == Blue || s.Color == Red {
			label = White
		}
		gocv.PutText(img, s.Name, s.Box.Min.Add(image.Pt(8, 38)), font, 0.6, label, 2)
		if s.Name == current {
			gocv.Rectangle(img, s.Box.Inset(-4), White, 3)
		}
	}
	gocv.Line(img, image.Pt(0, header), image.Pt(img.Cols(), header), White, 2)
}
