package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/osctl"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

const docs = `Gestures
  fist           all fingers down
  thumbs up      only the thumb up
  thumbs down    closed hand, thumb pointing down
  pointing       only the index finger up
  peace          index and middle up
  three          index, middle and ring up
  four           all fingers up except the thumb
  finger gun     thumb and index up
  ok             thumb and index up with the tips touching
  rock           index and pinky up
  call me        thumb and pinky up
  open palm      all five fingers up

Virtual Mouse
  index up            move the cursor inside the active zone
  pinch thumb+index   left click
  open palm           right click
  fist, move up/down  scroll

Volume Control
  pinch distance between thumb and index sets the level

Virtual Painter
  index + middle up   select a colour in the top band
  index up            draw
  c                   clear the canvas

Press q or Esc in any window to return to the menu.`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fmt.Println("Mudra - Hand Gesture Control")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := osctl.Detect(osctl.NewExecRunner(cfg.Backend.Timeout), runtime.GOOS, logging.Component(log, "osctl"))
	if backend.SimulatedMixer {
		log.Warn().Msg("no volume backend found, volume changes are simulated")
	}

	det := newDetector(cfg, log)
	defer det.Close()

	var display overlay.Display = overlay.NewHeadless()
	if cfg.Display.Enabled {
		display = overlay.NewWindow("Mudra")
	}
	defer display.Close()

	var hub *server.Hub
	if cfg.Server.Addr != "" {
		hub = server.NewHub(logging.Component(log, "hub"))
		go hub.Run(ctx)
	}

	a, err := app.New(app.Options{
		Config:   cfg,
		Camera:   capture.NewCamera(app.CameraConfig(cfg)),
		Detector: det,
		Display:  display,
		Desktop:  backend.Desktop,
		Mixer:    backend.Mixer,
		Store:    st,
		Hub:      hub,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	if hub != nil {
		srv := server.New(server.Config{
			Hub:    hub,
			Status: func() any { return a.Status() },
			Store:  st,
			Logger: logging.Component(log, "server"),
		})
		go func() {
			log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				log.Error().Err(err).Msg("server failed")
			}
		}()
	}

	return menu(ctx, a, os.Stdin, os.Stdout, log)
}

// newDetector prefers the MediaPipe service and falls back to the mock
// detector, which never reports a hand.
func newDetector(cfg config.Config, log zerolog.Logger) detector.Detector {
	det, err := detector.NewMediaPipeDetector(app.DetectorConfig(cfg), cfg.Detector.IdleTimeout, log)
	if err != nil {
		log.Warn().Err(err).Msg("MediaPipe not available, using mock detector")
		return detector.NewMockDetector()
	}
	return det
}

func menu(ctx context.Context, a *app.App, in io.Reader, out io.Writer, log zerolog.Logger) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		printMenu(out)

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}

		n, err := strconv.Atoi(line)
		switch {
		case err != nil:
			fmt.Fprintf(out, "Invalid choice %q\n", line)
		case n == 0:
			fmt.Fprintln(out, "Goodbye")
			return nil
		case n == 6:
			fmt.Fprintln(out, docs)
		case app.Mode(n).Valid():
			res, err := a.Run(ctx, app.Mode(n))
			if err != nil {
				if errors.Is(err, capture.ErrCameraUnavailable) {
					return err
				}
				log.Error().Err(err).Str("mode", app.Mode(n).String()).Msg("run failed")
				continue
			}
			fmt.Fprintf(out, "%s: %d frames, %d actions, %d failures\n",
				res.Mode.Title(), res.Frames, res.Actions, res.Failures)
			if ctx.Err() != nil {
				return nil
			}
		default:
			fmt.Fprintf(out, "Invalid choice %d\n", n)
		}
	}
}

func printMenu(out io.Writer) {
	fmt.Fprintln(out)
	for _, m := range app.Modes() {
		fmt.Fprintf(out, "  %d. %s\n", int(m), m.Title())
	}
	fmt.Fprintln(out, "  6. Documentation")
	fmt.Fprintln(out, "  0. Exit")
	fmt.Fprint(out, "Select: ")
}
