package osctl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/action"
)

// Darwin drives macOS through osascript for audio and screen queries and
// cliclick for the pointer.
type Darwin struct {
	runner Runner
}

// NewDarwin creates a macOS backend.
func NewDarwin(runner Runner) *Darwin {
	return &Darwin{runner: runner}
}

func (d *Darwin) appleScript(ctx context.Context, script string) (string, error) {
	return d.runner.Run(ctx, "osascript", "-e", script)
}

// MoveCursor implements action.Desktop.
func (d *Darwin) MoveCursor(ctx context.Context, x, y int) error {
	_, err := d.runner.Run(ctx, "cliclick", fmt.Sprintf("m:%d,%d", x, y))
	return err
}

// Click implements action.Desktop.
func (d *Darwin) Click(ctx context.Context, button action.Button) error {
	cmd := "c:."
	if button == action.ButtonRight {
		cmd = "rc:."
	}
	_, err := d.runner.Run(ctx, "cliclick", cmd)
	return err
}

// Scroll implements action.Desktop. cliclick has no wheel events.
func (d *Darwin) Scroll(ctx context.Context, delta int) error {
	return fmt.Errorf("scroll on darwin: %w", ErrUnsupported)
}

// ScreenSize implements action.ScreenSizer using the Finder desktop bounds.
func (d *Darwin) ScreenSize(ctx context.Context) (int, int, error) {
	out, err := d.appleScript(ctx, `tell application "Finder" to get bounds of window of desktop`)
	if err != nil {
		return 0, 0, err
	}

	// "0, 0, 1920, 1080"
	parts := strings.Split(out, ",")
	if len(parts) != 4 {
		return 0, 0, fmt.Errorf("unexpected desktop bounds %q", out)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[2]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[3]))
	if errW != nil || errH != nil {
		return 0, 0, fmt.Errorf("unexpected desktop bounds %q", out)
	}
	return w, h, nil
}

// SetVolume implements action.Mixer.
func (d *Darwin) SetVolume(ctx context.Context, pct int) error {
	_, err := d.appleScript(ctx, fmt.Sprintf("set volume output volume %d", pct))
	return err
}

// Volume implements action.VolumeReader.
func (d *Darwin) Volume(ctx context.Context) (int, error) {
	out, err := d.appleScript(ctx, "output volume of (get volume settings)")
	if err != nil {
		return 0, err
	}
	pct, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", out, err)
	}
	return pct, nil
}
