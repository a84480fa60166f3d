package osctl

import (
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/action"
)

// Backend is the pair of collaborators chosen for this machine.
type Backend struct {
	Desktop        action.Desktop
	Mixer          action.Mixer
	DesktopName    string
	MixerName      string
	SimulatedMixer bool
}

// Detect picks pointer and audio backends for goos based on which tools the
// runner can find. Each falls back to the simulated backend on its own.
func Detect(runner Runner, goos string, log zerolog.Logger) Backend {
	sim := NewSimulated(log)
	b := Backend{
		Desktop:        sim,
		Mixer:          sim,
		DesktopName:    "simulated",
		MixerName:      "simulated",
		SimulatedMixer: true,
	}

	switch goos {
	case "darwin":
		d := NewDarwin(runner)
		if runner.Available("cliclick") {
			b.Desktop, b.DesktopName = d, "cliclick"
		}
		if runner.Available("osascript") {
			b.Mixer, b.MixerName, b.SimulatedMixer = d, "osascript", false
		}
	case "linux":
		l := NewLinux(runner)
		if runner.Available("xdotool") {
			b.Desktop, b.DesktopName = l, "xdotool"
		}
		if runner.Available("pactl") {
			b.Mixer, b.MixerName, b.SimulatedMixer = l, "pactl", false
		}
	}

	log.Info().
		Str("os", goos).
		Str("desktop", b.DesktopName).
		Str("mixer", b.MixerName).
		Msg("os backend selected")

	return b
}
