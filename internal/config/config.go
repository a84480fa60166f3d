// Package config loads mudra's typed configuration from defaults, an optional
// mudra.{yaml,json,toml} file, a .env file and MUDRA_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is prepended to every environment override, e.g. MUDRA_MOUSE_SENSITIVITY.
const EnvPrefix = "MUDRA"

// Config is the complete application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	DataDir  string         `mapstructure:"data_dir"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Detector DetectorConfig `mapstructure:"detector"`
	Fingers  FingersConfig  `mapstructure:"fingers"`
	Gesture  GestureConfig  `mapstructure:"gesture"`
	Mouse    MouseConfig    `mapstructure:"mouse"`
	Volume   VolumeConfig   `mapstructure:"volume"`
	Painter  PainterConfig  `mapstructure:"painter"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Server   ServerConfig   `mapstructure:"server"`
	Display  DisplayConfig  `mapstructure:"display"`
	Backend  BackendConfig  `mapstructure:"backend"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CameraConfig struct {
	Device   int  `mapstructure:"device"`
	Width    int  `mapstructure:"width"`
	Height   int  `mapstructure:"height"`
	FPS      int  `mapstructure:"fps"`
	Mirror   bool `mapstructure:"mirror"`
	Prefetch bool `mapstructure:"prefetch"`
}

type DetectorConfig struct {
	Script       string        `mapstructure:"script"`
	Python       string        `mapstructure:"python"`
	MaxHands     int           `mapstructure:"max_hands"`
	MinDetection float64       `mapstructure:"min_detection"`
	MinTracking  float64       `mapstructure:"min_tracking"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type FingersConfig struct {
	Epsilon       float64 `mapstructure:"epsilon"`
	MinConfidence float64 `mapstructure:"min_confidence"`
}

type GestureConfig struct {
	Window     int     `mapstructure:"window"`
	OKDistance float64 `mapstructure:"ok_distance"`
}

type MouseConfig struct {
	Margin          float64       `mapstructure:"margin"`
	ScreenWidth     int           `mapstructure:"screen_width"`
	ScreenHeight    int           `mapstructure:"screen_height"`
	Sensitivity     float64       `mapstructure:"sensitivity"`
	ClickDistance   float64       `mapstructure:"click_distance"`
	ClickCooldown   time.Duration `mapstructure:"click_cooldown"`
	Window          int           `mapstructure:"window"`
	ScrollThreshold float64       `mapstructure:"scroll_threshold"`
	ScrollDivisor   float64       `mapstructure:"scroll_divisor"`
}

type VolumeConfig struct {
	MinDistance float64 `mapstructure:"min_distance"`
	MaxDistance float64 `mapstructure:"max_distance"`
	Window      int     `mapstructure:"window"`
	MinChange   int     `mapstructure:"min_change"`
	Initial     int     `mapstructure:"initial"`
}

type PainterConfig struct {
	Window int `mapstructure:"window"`
	Header int `mapstructure:"header"`
	Brush  int `mapstructure:"brush"`
	Eraser int `mapstructure:"eraser"`
}

type PipelineConfig struct {
	HandPolicy string        `mapstructure:"hand_policy"`
	FrameDelay time.Duration `mapstructure:"frame_delay"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DisplayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type BackendConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("data_dir", defaultDataDir())

	v.SetDefault("camera.device", 0)
	v.SetDefault("camera.width", 1280)
	v.SetDefault("camera.height", 720)
	v.SetDefault("camera.fps", 30)
	v.SetDefault("camera.mirror", true)
	v.SetDefault("camera.prefetch", false)

	v.SetDefault("detector.script", "")
	v.SetDefault("detector.python", "")
	v.SetDefault("detector.max_hands", 2)
	v.SetDefault("detector.min_detection", 0.7)
	v.SetDefault("detector.min_tracking", 0.5)
	v.SetDefault("detector.idle_timeout", "30s")

	v.SetDefault("fingers.epsilon", 5.0)
	v.SetDefault("fingers.min_confidence", 0.7)

	v.SetDefault("gesture.window", 5)
	v.SetDefault("gesture.ok_distance", 40.0)

	v.SetDefault("mouse.margin", 100.0)
	v.SetDefault("mouse.screen_width", 0)
	v.SetDefault("mouse.screen_height", 0)
	v.SetDefault("mouse.sensitivity", 2.5)
	v.SetDefault("mouse.click_distance", 40.0)
	v.SetDefault("mouse.click_cooldown", "300ms")
	v.SetDefault("mouse.window", 7)
	v.SetDefault("mouse.scroll_threshold", 20.0)
	v.SetDefault("mouse.scroll_divisor", 10.0)

	v.SetDefault("volume.min_distance", 20.0)
	v.SetDefault("volume.max_distance", 280.0)
	v.SetDefault("volume.window", 8)
	v.SetDefault("volume.min_change", 2)
	v.SetDefault("volume.initial", 50)

	v.SetDefault("painter.window", 5)
	v.SetDefault("painter.header", 100)
	v.SetDefault("painter.brush", 10)
	v.SetDefault("painter.eraser", 50)

	v.SetDefault("pipeline.hand_policy", "first")
	v.SetDefault("pipeline.frame_delay", "10ms")

	v.SetDefault("server.addr", "")
	v.SetDefault("display.enabled", true)
	v.SetDefault("backend.timeout", "2s")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}

// Load reads configuration. dirs are searched in order for a mudra config
// file and default to the working directory and $HOME/.mudra. A .env file in
// the first directory is applied to the environment before overrides are read.
// A missing config file is not an error.
func Load(dirs ...string) (Config, error) {
	if len(dirs) == 0 {
		dirs = []string{".", defaultDataDir()}
	}

	envFile := filepath.Join(dirs[0], ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("error reading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("mudra")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration with no file or environment applied.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// WithSetting returns a copy of c with the dotted key set to value, the form
// the settings API stores. Strings are converted to the field type. Unknown
// keys and values that fail validation are rejected and c is unchanged.
func (c Config) WithSetting(key, value string) (Config, error) {
	var input any = value
	parts := strings.Split(key, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		input = map[string]any{parts[i]: input}
	}

	out := c
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return c, err
	}
	if err := dec.Decode(input); err != nil {
		return c, invalid(key, "%v", err)
	}
	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, key, fmt.Sprintf(format, args...))
}

// Validate checks value ranges and reports the first offending key.
func (c Config) Validate() error {
	windows := []struct {
		key string
		n   int
	}{
		{"gesture.window", c.Gesture.Window},
		{"mouse.window", c.Mouse.Window},
		{"volume.window", c.Volume.Window},
		{"painter.window", c.Painter.Window},
	}
	for _, w := range windows {
		if w.n < 1 {
			return invalid(w.key, "must be at least 1, got %d", w.n)
		}
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return invalid("log.format", "must be console or json, got %q", c.Log.Format)
	}

	switch c.Pipeline.HandPolicy {
	case "", "first", "left", "right":
	default:
		return invalid("pipeline.hand_policy", "must be first, left or right, got %q", c.Pipeline.HandPolicy)
	}

	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return invalid("camera.width", "resolution must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.FPS <= 0 {
		return invalid("camera.fps", "must be positive, got %d", c.Camera.FPS)
	}
	if c.Detector.MaxHands < 1 {
		return invalid("detector.max_hands", "must be at least 1, got %d", c.Detector.MaxHands)
	}
	if c.Fingers.Epsilon < 0 {
		return invalid("fingers.epsilon", "must not be negative, got %v", c.Fingers.Epsilon)
	}
	if c.Fingers.MinConfidence < 0 || c.Fingers.MinConfidence > 1 {
		return invalid("fingers.min_confidence", "must be within 0..1, got %v", c.Fingers.MinConfidence)
	}
	if c.Mouse.Sensitivity <= 0 {
		return invalid("mouse.sensitivity", "must be positive, got %v", c.Mouse.Sensitivity)
	}
	if c.Mouse.ScrollDivisor <= 0 {
		return invalid("mouse.scroll_divisor", "must be positive, got %v", c.Mouse.ScrollDivisor)
	}
	if c.Mouse.ScreenWidth < 0 || c.Mouse.ScreenHeight < 0 {
		return invalid("mouse.screen_width", "must not be negative")
	}
	if 2*c.Mouse.Margin >= float64(c.Camera.Width) || 2*c.Mouse.Margin >= float64(c.Camera.Height) {
		return invalid("mouse.margin", "%v leaves no active zone in a %dx%d frame", c.Mouse.Margin, c.Camera.Width, c.Camera.Height)
	}
	if c.Volume.MinDistance >= c.Volume.MaxDistance {
		return invalid("volume.min_distance", "must be below volume.max_distance (%v >= %v)", c.Volume.MinDistance, c.Volume.MaxDistance)
	}
	if c.Volume.Initial < 0 || c.Volume.Initial > 100 {
		return invalid("volume.initial", "must be within 0..100, got %d", c.Volume.Initial)
	}
	if c.Painter.Brush < 1 || c.Painter.Eraser < 1 {
		return invalid("painter.brush", "thickness must be at least 1")
	}
	if c.Pipeline.FrameDelay < 0 {
		return invalid("pipeline.frame_delay", "must not be negative, got %v", c.Pipeline.FrameDelay)
	}
	return nil
}

// DatabasePath returns the SQLite file inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}
