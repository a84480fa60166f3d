package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

type harness struct {
	app      *App
	camera   *capture.MockCamera
	detector *detector.MockDetector
	display  *overlay.Headless
	recorder *action.Recorder
	store    *store.Store
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Camera.Width = 640
	cfg.Camera.Height = 480
	cfg.Pipeline.FrameDelay = 0
	return cfg
}

func newHarness(t *testing.T, cfg config.Config, frames int, loop bool, hands ...detector.Hand) *harness {
	t.Helper()

	mats := make([]*gocv.Mat, frames)
	for i := range mats {
		m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		t.Cleanup(func() { m.Close() })
		mats[i] = &m
	}

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	h := &harness{
		camera:   capture.NewMockCamera(mats, loop),
		detector: detector.NewMockDetector(),
		display:  overlay.NewHeadless(),
		recorder: action.NewRecorder(),
		store:    s,
	}
	h.detector.SetHands(hands)

	h.app, err = New(Options{
		Config:   cfg,
		Camera:   h.camera,
		Detector: h.detector,
		Display:  h.display,
		Desktop:  h.recorder,
		Mixer:    h.recorder,
		Store:    s,
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return h
}

func pointing() detector.Hand {
	return detector.PoseLandmarks([5]bool{false, true, false, false, false})
}

func TestNew_RequiresCollaborators(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no camera", Options{Detector: detector.NewMockDetector(), Display: overlay.NewHeadless()}},
		{"no detector", Options{Camera: capture.NewMockCamera(nil, false), Display: overlay.NewHeadless()}},
		{"no display", Options{Camera: capture.NewMockCamera(nil, false), Detector: detector.NewMockDetector()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestRun_CameraUnavailable(t *testing.T) {
	h := newHarness(t, testConfig(), 1, false)
	h.camera.SetOpenError(errors.New("no device"))

	_, err := h.app.Run(context.Background(), ModeMouse)
	if !errors.Is(err, capture.ErrCameraUnavailable) {
		t.Fatalf("Run() error = %v, want ErrCameraUnavailable", err)
	}
	if h.detector.Calls() != 0 {
		t.Errorf("detector should not run without a camera, got %d calls", h.detector.Calls())
	}
}

func TestRun_UnknownMode(t *testing.T) {
	h := newHarness(t, testConfig(), 1, false)
	if _, err := h.app.Run(context.Background(), Mode(9)); err == nil {
		t.Error("Run() should reject unknown modes")
	}
}

func TestRun_MouseMovesAndRecordsSession(t *testing.T) {
	h := newHarness(t, testConfig(), 5, false, pointing())

	res, err := h.app.Run(context.Background(), ModeMouse)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Frames != 5 {
		t.Errorf("Frames = %d, want 5", res.Frames)
	}
	if len(h.recorder.Moves) != 5 || res.Actions != 5 {
		t.Errorf("moves = %d, actions = %d, want 5 each", len(h.recorder.Moves), res.Actions)
	}
	if h.display.Frames() != 5 {
		t.Errorf("display showed %d frames, want 5", h.display.Frames())
	}

	sess, err := h.store.Sessions().Get(res.SessionID)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if sess.Mode != "mouse" || sess.Frames != 5 || sess.Active() {
		t.Errorf("unexpected session %+v", sess)
	}

	st := h.app.Status()
	if st.Running || st.Frames != 5 || st.Gesture != "pointing" {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestRun_QuitKey(t *testing.T) {
	h := newHarness(t, testConfig(), 1, true, pointing())
	h.display.Press(3, overlay.KeyQuit)

	res, err := h.app.Run(context.Background(), ModeGestures)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 3 {
		t.Errorf("Frames = %d, want 3", res.Frames)
	}
	if h.camera.IsOpen() {
		t.Error("camera should be released after quit")
	}
}

func TestRun_DetectorErrorIsNoDetection(t *testing.T) {
	h := newHarness(t, testConfig(), 4, false)
	h.detector.SetError(errors.New("service crashed"))

	res, err := h.app.Run(context.Background(), ModeMouse)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 4 || res.Actions != 0 {
		t.Errorf("Frames = %d, Actions = %d, want 4 and 0", res.Frames, res.Actions)
	}
	if h.detector.Calls() != 4 {
		t.Errorf("detector calls = %d, want 4", h.detector.Calls())
	}
}

func TestRun_ActionFailuresDoNotStopLoop(t *testing.T) {
	h := newHarness(t, testConfig(), 3, false, pointing())
	h.recorder.Err = errors.New("xdotool missing")

	res, err := h.app.Run(context.Background(), ModeMouse)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 3 || res.Failures != 3 {
		t.Errorf("Frames = %d, Failures = %d, want 3 each", res.Frames, res.Failures)
	}
}

func TestRun_VolumeJournalsChanges(t *testing.T) {
	// Open palm: thumb tip (230,320), index tip (290,200), pinch ~134px -> 44%.
	h := newHarness(t, testConfig(), 6, false, detector.OpenPalmLandmarks())

	res, err := h.app.Run(context.Background(), ModeVolume)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(h.recorder.Volumes) != 1 || h.recorder.Volumes[0] != 44 {
		t.Fatalf("volumes = %v, want [44]", h.recorder.Volumes)
	}

	counts, err := h.store.Events().CountByKind(res.SessionID)
	if err != nil {
		t.Fatalf("CountByKind() error = %v", err)
	}
	if counts["volume_set"] != 1 {
		t.Errorf("journal counts = %v, want one volume_set", counts)
	}
}

type readingMixer struct {
	*action.Recorder
	level int
}

func (m readingMixer) Volume(context.Context) (int, error) { return m.level, nil }

func TestRun_VolumeStartsFromBackendLevel(t *testing.T) {
	h := newHarness(t, testConfig(), 3, false, detector.OpenPalmLandmarks())
	h.app.opts.Mixer = readingMixer{Recorder: h.recorder, level: 45}

	if _, err := h.app.Run(context.Background(), ModeVolume); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// 44 is within MinChange of the current 45.
	if len(h.recorder.Volumes) != 0 {
		t.Errorf("volumes = %v, want none", h.recorder.Volumes)
	}
}

func TestRun_StoredSettingsOverrideConfig(t *testing.T) {
	h := newHarness(t, testConfig(), 3, false, detector.OpenPalmLandmarks())
	// The open palm pinch maps to 44%, so starting there suppresses the change.
	if err := h.store.Settings().Set("volume.initial", "44"); err != nil {
		t.Fatalf("Settings().Set() error = %v", err)
	}
	if err := h.store.Settings().Set("painter.color", "Red"); err != nil {
		t.Fatalf("Settings().Set() error = %v", err)
	}

	if _, err := h.app.Run(context.Background(), ModeVolume); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(h.recorder.Volumes) != 0 {
		t.Errorf("volumes = %v, want none after the stored initial level", h.recorder.Volumes)
	}
}

func TestRun_InvalidStoredSettingIgnored(t *testing.T) {
	h := newHarness(t, testConfig(), 3, false, detector.OpenPalmLandmarks())
	if err := h.store.Settings().Set("volume.initial", "400"); err != nil {
		t.Fatalf("Settings().Set() error = %v", err)
	}

	if _, err := h.app.Run(context.Background(), ModeVolume); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(h.recorder.Volumes) != 1 || h.recorder.Volumes[0] != 44 {
		t.Errorf("volumes = %v, want [44] from the configured initial level", h.recorder.Volumes)
	}
}

func TestRun_PainterDrawsAndClears(t *testing.T) {
	h := newHarness(t, testConfig(), 4, false, pointing())
	h.display.Press(2, overlay.KeyClear)

	res, err := h.app.Run(context.Background(), ModePainter)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 4 || res.Actions != 4 {
		t.Errorf("Frames = %d, Actions = %d, want 4 each", res.Frames, res.Actions)
	}

	counts, _ := h.store.Events().CountByKind(res.SessionID)
	if len(counts) != 0 {
		t.Errorf("strokes should not be journaled, got %v", counts)
	}
}

func TestRun_DetectMode(t *testing.T) {
	h := newHarness(t, testConfig(), 2, false, detector.ThumbsUpLandmarks())

	res, err := h.app.Run(context.Background(), ModeDetect)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 2 || res.Actions != 0 {
		t.Errorf("Frames = %d, Actions = %d, want 2 and 0", res.Frames, res.Actions)
	}
	if got := h.app.Status().Detail; got != "10000" {
		t.Errorf("detail = %q, want finger string 10000", got)
	}
}

func TestRun_Cancelled(t *testing.T) {
	h := newHarness(t, testConfig(), 1, true, pointing())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := h.app.Run(ctx, ModeMouse)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 0 {
		t.Errorf("Frames = %d, want 0", res.Frames)
	}
}

func TestRun_FrameDelayHonoursCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.FrameDelay = time.Hour
	h := newHarness(t, cfg, 1, true, pointing())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		res, _ := h.app.Run(ctx, ModeGestures)
		done <- res
	}()

	select {
	case res := <-done:
		if res.Frames != 1 {
			t.Errorf("Frames = %d, want 1", res.Frames)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel during frame delay")
	}
}

func TestRun_Prefetch(t *testing.T) {
	cfg := testConfig()
	cfg.Camera.Prefetch = true
	h := newHarness(t, cfg, 5, false, pointing())

	res, err := h.app.Run(context.Background(), ModeGestures)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames < 1 || res.Frames > 5 {
		t.Errorf("Frames = %d, want between 1 and 5", res.Frames)
	}
}

func TestRun_PublishesSummaries(t *testing.T) {
	h := newHarness(t, testConfig(), 30, false, pointing())
	// The hub is not running, so publishing must never block the loop.
	h.app.opts.Hub = server.NewHub(zerolog.Nop())

	res, err := h.app.Run(context.Background(), ModeGestures)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 30 {
		t.Errorf("Frames = %d, want 30", res.Frames)
	}
	if h.app.opts.Hub.Dropped() == 0 {
		t.Error("expected summaries beyond the queue to be dropped")
	}
}

func TestMode(t *testing.T) {
	want := []string{"detect", "gestures", "volume", "mouse", "painter"}
	for i, m := range Modes() {
		if !m.Valid() {
			t.Errorf("%v should be valid", m)
		}
		if m.String() != want[i] {
			t.Errorf("Mode(%d).String() = %q, want %q", int(m), m.String(), want[i])
		}
		if m.Title() == "" {
			t.Errorf("%v has no title", m)
		}
	}
	if Mode(0).Valid() || Mode(6).Valid() {
		t.Error("modes outside 1..5 should be invalid")
	}
}

func TestConfigConversion(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.HandPolicy = "left"
	cfg.Mouse.ScreenWidth = 2560
	cfg.Mouse.ScreenHeight = 1440

	p := PipelineConfig(cfg)
	if p.HandPolicy != pipeline.PolicyLeft || p.GestureWindow != 5 || p.OKDistance != 40 {
		t.Errorf("unexpected pipeline config %+v", p)
	}

	m := MouseConfig(cfg)
	if m.ScreenWidth != 2560 || m.ScreenHeight != 1440 || m.FrameWidth != 1280 {
		t.Errorf("unexpected mouse config %+v", m)
	}

	cfg.Mouse.ScreenWidth = 0
	if m := MouseConfig(cfg); m.ScreenWidth != 1920 {
		t.Errorf("zero screen width should keep the default, got %d", m.ScreenWidth)
	}

	c := CameraConfig(cfg)
	if c.Width != 1280 || c.FPS != 30 || !c.Mirror {
		t.Errorf("unexpected camera config %+v", c)
	}

	d := DetectorConfig(cfg)
	if d.MaxHands != 2 || d.MinConfidence != 0.7 {
		t.Errorf("unexpected detector config %+v", d)
	}
}

func TestPainterMode_FrameSmallerThanCanvas(t *testing.T) {
	canvas := overlay.NewCanvas(1280, 720)
	d, err := action.NewDispatcher(action.Options{Canvas: canvas, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	m := &painterMode{painter: action.NewPainter(action.DefaultPainterConfig()), canvas: canvas, dispatch: d}
	defer m.Close()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	f := pipeline.New(pipeline.DefaultConfig()).Process([]detector.Hand{pointing()})
	out := m.Step(context.Background(), f, &img, time.Now())
	if !out.dispatched || !out.ok {
		t.Fatalf("first stroke not applied: %+v", out)
	}

	if w, h := canvas.Size(); w != 640 || h != 480 {
		t.Fatalf("canvas = %dx%d, want the frame size 640x480", w, h)
	}

	// The first segment must be on the canvas, not on the discarded layer.
	fresh := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer fresh.Close()
	if err := canvas.Merge(&fresh); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	tip := f.Primary.Hand.Points[detector.IndexTip]
	if px := fresh.GetVecbAt(int(tip.Y), int(tip.X)); px[0] == 0 && px[1] == 0 && px[2] == 0 {
		t.Error("stroke drawn in the resize frame was lost")
	}
}
