package osctl

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/action"
)

// Linux drives X11 desktops through xdotool and PulseAudio/PipeWire through pactl.
type Linux struct {
	runner Runner
}

// NewLinux creates a Linux backend.
func NewLinux(runner Runner) *Linux {
	return &Linux{runner: runner}
}

// MoveCursor implements action.Desktop.
func (l *Linux) MoveCursor(ctx context.Context, x, y int) error {
	_, err := l.runner.Run(ctx, "xdotool", "mousemove", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

// Click implements action.Desktop.
func (l *Linux) Click(ctx context.Context, button action.Button) error {
	b := "1"
	if button == action.ButtonRight {
		b = "3"
	}
	_, err := l.runner.Run(ctx, "xdotool", "click", b)
	return err
}

// Scroll implements action.Desktop. X11 maps wheel up and down to buttons 4 and 5.
func (l *Linux) Scroll(ctx context.Context, delta int) error {
	if delta == 0 {
		return nil
	}
	b, n := "4", delta
	if delta < 0 {
		b, n = "5", -delta
	}
	_, err := l.runner.Run(ctx, "xdotool", "click", "--repeat", strconv.Itoa(n), b)
	return err
}

// ScreenSize implements action.ScreenSizer.
func (l *Linux) ScreenSize(ctx context.Context) (int, int, error) {
	out, err := l.runner.Run(ctx, "xdotool", "getdisplaygeometry")
	if err != nil {
		return 0, 0, err
	}

	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected display geometry %q", out)
	}
	w, errW := strconv.Atoi(fields[0])
	h, errH := strconv.Atoi(fields[1])
	if errW != nil || errH != nil {
		return 0, 0, fmt.Errorf("unexpected display geometry %q", out)
	}
	return w, h, nil
}

// SetVolume implements action.Mixer.
func (l *Linux) SetVolume(ctx context.Context, pct int) error {
	_, err := l.runner.Run(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", pct))
	return err
}

var percentPattern = regexp.MustCompile(`(\d+)%`)

// Volume implements action.VolumeReader. It reports the first channel.
func (l *Linux) Volume(ctx context.Context) (int, error) {
	out, err := l.runner.Run(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@")
	if err != nil {
		return 0, err
	}
	m := percentPattern.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no volume level in %q", out)
	}
	return strconv.Atoi(m[1])
}
