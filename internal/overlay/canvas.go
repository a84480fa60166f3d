package overlay

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
)

// Canvas accumulates painter strokes on a black layer the same size as the
// camera frame. Black pixels are transparent when merged.
type Canvas struct {
	mu     sync.Mutex
	layer  gocv.Mat
	width  int
	height int
}

var _ action.Canvas = (*Canvas)(nil)

// NewCanvas creates a blank canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		layer:  blank(width, height),
		width:  width,
		height: height,
	}
}

func blank(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
}

// DrawStroke implements action.Canvas.
func (c *Canvas) DrawStroke(s action.Stroke) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	col := s.Color
	if s.Erase {
		col = Black
	}
	if s.Thickness < 1 {
		return fmt.Errorf("stroke %s: thickness %d", s.ID, s.Thickness)
	}
	return gocv.Line(&c.layer, s.From, s.To, col, s.Thickness)
}

// Clear implements action.Canvas.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layer.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Fit resizes the canvas to width x height, dropping its strokes, and reports
// whether the size changed. Call it before drawing strokes for a frame.
func (c *Canvas) Fit(width, height int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fit(width, height)
}

func (c *Canvas) fit(width, height int) bool {
	if width == c.width && height == c.height {
		return false
	}
	c.layer.Close()
	c.width, c.height = width, height
	c.layer = blank(width, height)
	return true
}

// Merge paints the strokes over frame in place. A frame of a different size
// resets the canvas to match it first.
func (c *Canvas) Merge(frame *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fit(frame.Cols(), frame.Rows())

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(c.layer, &gray, gocv.ColorBGRToGray); err != nil {
		return fmt.Errorf("canvas to gray: %w", err)
	}

	gocv.Threshold(gray, &gray, 50, 255, gocv.ThresholdBinaryInv)

	mask := gocv.NewMat()
	defer mask.Close()
	if err := gocv.CvtColor(gray, &mask, gocv.ColorGrayToBGR); err != nil {
		return fmt.Errorf("mask to bgr: %w", err)
	}

	if err := gocv.BitwiseAnd(*frame, mask, frame); err != nil {
		return fmt.Errorf("cut strokes: %w", err)
	}
	if err := gocv.BitwiseOr(*frame, c.layer, frame); err != nil {
		return fmt.Errorf("fill strokes: %w", err)
	}
	return nil
}

// Close releases the canvas layer.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layer.Close()
}
