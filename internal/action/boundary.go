package action

import "context"

// Desktop is the OS pointer boundary.
type Desktop interface {
	MoveCursor(ctx context.Context, x, y int) error
	Click(ctx context.Context, button Button) error
	Scroll(ctx context.Context, delta int) error
}

// ScreenSizer is implemented by desktops that can report the screen resolution.
type ScreenSizer interface {
	ScreenSize(ctx context.Context) (width, height int, err error)
}

// Mixer is the OS audio boundary. pct is always within 0..100.
type Mixer interface {
	SetVolume(ctx context.Context, pct int) error
}

// VolumeReader is implemented by mixers that can report the current level.
type VolumeReader interface {
	Volume(ctx context.Context) (int, error)
}

// Canvas receives painter strokes.
type Canvas interface {
	DrawStroke(s Stroke) error
	Clear()
}

// Journal records discrete events.
type Journal interface {
	Record(ctx context.Context, ev Event) error
}
