package osctl

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/action"
)

func TestExecRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	ctx := context.Background()

	t.Run("returns trimmed stdout", func(t *testing.T) {
		out, err := NewExecRunner(time.Second).Run(ctx, "sh", "-c", "echo '  hello world  '")
		if err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
		if out != "hello world" {
			t.Errorf("Run() = %q, want %q", out, "hello world")
		}
	})

	t.Run("includes stderr on failure", func(t *testing.T) {
		_, err := NewExecRunner(time.Second).Run(ctx, "sh", "-c", "echo boom >&2; exit 3")
		if err == nil {
			t.Fatal("expected error for failing command")
		}
		if !strings.Contains(err.Error(), "boom") {
			t.Errorf("error %q should include stderr", err)
		}
	})

	t.Run("times out", func(t *testing.T) {
		_, err := NewExecRunner(50*time.Millisecond).Run(ctx, "sleep", "2")
		if err == nil {
			t.Fatal("expected timeout error")
		}
		if !strings.Contains(err.Error(), "timed out") {
			t.Errorf("error %q should mention the timeout", err)
		}
	})

	t.Run("availability", func(t *testing.T) {
		r := NewExecRunner(0)
		if !r.Available("sh") {
			t.Error("sh should be on PATH")
		}
		if r.Available("mudra-definitely-not-a-tool") {
			t.Error("made-up tool should not be found")
		}
	})
}

func TestLinux_Commands(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeRunner("xdotool", "pactl")
	l := NewLinux(fake)

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"move", func() error { return l.MoveCursor(ctx, 10, 20) }, "xdotool mousemove 10 20"},
		{"left click", func() error { return l.Click(ctx, action.ButtonLeft) }, "xdotool click 1"},
		{"right click", func() error { return l.Click(ctx, action.ButtonRight) }, "xdotool click 3"},
		{"scroll up", func() error { return l.Scroll(ctx, 3) }, "xdotool click --repeat 3 4"},
		{"scroll down", func() error { return l.Scroll(ctx, -2) }, "xdotool click --repeat 2 5"},
		{"volume", func() error { return l.SetVolume(ctx, 42) }, "pactl set-sink-volume @DEFAULT_SINK@ 42%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if got := fake.Last(); got != tt.want {
				t.Errorf("command = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinux_Queries(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeRunner("xdotool", "pactl")
	fake.Outputs["xdotool"] = "2560 1440"
	fake.Outputs["pactl"] = "Volume: front-left: 42598 /  65% / -11.23 dB,   front-right: 42598 /  65% / -11.23 dB"
	l := NewLinux(fake)

	w, h, err := l.ScreenSize(ctx)
	if err != nil || w != 2560 || h != 1440 {
		t.Errorf("ScreenSize() = %d, %d, %v", w, h, err)
	}

	pct, err := l.Volume(ctx)
	if err != nil || pct != 65 {
		t.Errorf("Volume() = %d, %v, want 65", pct, err)
	}

	fake.Outputs["pactl"] = "garbage"
	if _, err := l.Volume(ctx); err == nil {
		t.Error("expected error for unparsable volume")
	}
}

func TestDarwin_Commands(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeRunner("cliclick", "osascript")
	d := NewDarwin(fake)

	if err := d.MoveCursor(ctx, 5, 6); err != nil || fake.Last() != "cliclick m:5,6" {
		t.Errorf("MoveCursor: %v %q", err, fake.Last())
	}
	if err := d.Click(ctx, action.ButtonRight); err != nil || fake.Last() != "cliclick rc:." {
		t.Errorf("Click: %v %q", err, fake.Last())
	}
	if err := d.SetVolume(ctx, 30); err != nil || fake.Last() != "osascript -e set volume output volume 30" {
		t.Errorf("SetVolume: %v %q", err, fake.Last())
	}
	if err := d.Scroll(ctx, 1); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Scroll() error = %v, want ErrUnsupported", err)
	}

	fake.Outputs["osascript"] = "0, 0, 1440, 900"
	if w, h, err := d.ScreenSize(ctx); err != nil || w != 1440 || h != 900 {
		t.Errorf("ScreenSize() = %d, %d, %v", w, h, err)
	}

	fake.Outputs["osascript"] = "37"
	if pct, err := d.Volume(ctx); err != nil || pct != 37 {
		t.Errorf("Volume() = %d, %v", pct, err)
	}
}

func TestRunnerErrorsPropagate(t *testing.T) {
	fake := NewFakeRunner("pactl")
	fake.Err = errors.New("no sink")

	if err := NewLinux(fake).SetVolume(context.Background(), 10); err == nil {
		t.Error("expected runner error to propagate")
	}
}

func TestSimulated(t *testing.T) {
	ctx := context.Background()
	s := NewSimulated(zerolog.Nop())

	if v, _ := s.Volume(ctx); v != 50 {
		t.Errorf("initial volume = %d, want 50", v)
	}
	s.SetVolume(ctx, 80)
	if v, _ := s.Volume(ctx); v != 80 {
		t.Errorf("volume = %d, want 80", v)
	}

	s.MoveCursor(ctx, 3, 4)
	s.Click(ctx, action.ButtonLeft)
	if x, y := s.Cursor(); x != 3 || y != 4 {
		t.Errorf("cursor = %d,%d", x, y)
	}
	if s.Clicks() != 1 {
		t.Errorf("clicks = %d, want 1", s.Clicks())
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name          string
		goos          string
		tools         []string
		desktop       string
		mixer         string
		simulateMixer bool
	}{
		{"linux full", "linux", []string{"xdotool", "pactl"}, "xdotool", "pactl", false},
		{"linux audio only", "linux", []string{"pactl"}, "simulated", "pactl", false},
		{"darwin full", "darwin", []string{"cliclick", "osascript"}, "cliclick", "osascript", false},
		{"darwin without cliclick", "darwin", []string{"osascript"}, "simulated", "osascript", false},
		{"no tools", "linux", nil, "simulated", "simulated", true},
		{"unsupported os", "windows", []string{"xdotool", "pactl"}, "simulated", "simulated", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Detect(NewFakeRunner(tt.tools...), tt.goos, zerolog.Nop())

			if b.DesktopName != tt.desktop || b.MixerName != tt.mixer {
				t.Errorf("Detect() = %s/%s, want %s/%s", b.DesktopName, b.MixerName, tt.desktop, tt.mixer)
			}
			if b.SimulatedMixer != tt.simulateMixer {
				t.Errorf("SimulatedMixer = %v, want %v", b.SimulatedMixer, tt.simulateMixer)
			}
			if b.Desktop == nil || b.Mixer == nil {
				t.Error("collaborators must never be nil")
			}
		})
	}
}
