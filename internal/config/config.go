// Package config loads the gesturectl YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Display modes.
const (
	DisplayAuto = "auto"
	DisplayTUI  = "tui"
	DisplayLog  = "log"
)

type Config struct {
	Camera      CameraConfig     `yaml:"camera"`
	Detector    DetectorConfig   `yaml:"detector"`
	Gestures    GesturesConfig   `yaml:"gestures"`
	Playback    PlaybackConfig   `yaml:"playback"`
	Dispatch    DispatchConfig   `yaml:"dispatch"`
	Display     DisplayConfig    `yaml:"display"`
	Storage     StorageConfig    `yaml:"storage"`
	Server      ServerConfig     `yaml:"server"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
	Log         LogConfig        `yaml:"log"`
	Tray        TrayConfig       `yaml:"tray"`
}

type CameraConfig struct {
	Device int  `yaml:"device"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	FPS    int  `yaml:"fps"`
	Mirror bool `yaml:"mirror"`
}

type DetectorConfig struct {
	MaxHands              int     `yaml:"max_hands"`
	MinConfidence         float64 `yaml:"min_confidence"`
	MinTrackingConfidence float64 `yaml:"min_tracking_confidence"`
}

type GesturesConfig struct {
	EdgeCooldown  time.Duration `yaml:"edge_cooldown"`
	LevelCooldown time.Duration `yaml:"level_cooldown"`
}

type PlaybackConfig struct {
	InitialVolume int `yaml:"initial_volume"`
	VolumeStep    int `yaml:"volume_step"`
}

type DispatchConfig struct {
	// Plugin names the media plugin; empty only logs commands.
	Plugin    string        `yaml:"plugin"`
	PluginDir string        `yaml:"plugin_dir"`
	Timeout   time.Duration `yaml:"timeout"`
}

type DisplayConfig struct {
	Mode            string        `yaml:"mode"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	MaxFailures     int           `yaml:"max_failures"`
}

type StorageConfig struct {
	// Path of the SQLite journal; empty disables persistence.
	Path string `yaml:"path"`
}

type ServerConfig struct {
	// Listen is the HTTP address; empty disables the server.
	Listen string `yaml:"listen"`
}

type ScreenshotConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	File string `yaml:"file"`
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HomeDir is the per-user data directory, ~/.gesturectl.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gesturectl"
	}
	return filepath.Join(home, ".gesturectl")
}

// DefaultPath is where the config file is looked up by default.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	home := HomeDir()
	return &Config{
		Camera: CameraConfig{
			Device: 0,
			Width:  1280,
			Height: 720,
			FPS:    60,
			Mirror: true,
		},
		Detector: DetectorConfig{
			MaxHands:              1,
			MinConfidence:         0.8,
			MinTrackingConfidence: 0.8,
		},
		Gestures: GesturesConfig{
			EdgeCooldown:  700 * time.Millisecond,
			LevelCooldown: 150 * time.Millisecond,
		},
		Playback: PlaybackConfig{
			InitialVolume: 50,
			VolumeStep:    8,
		},
		Dispatch: DispatchConfig{
			Plugin:    "media-keys",
			PluginDir: filepath.Join(home, "plugins"),
			Timeout:   500 * time.Millisecond,
		},
		Display: DisplayConfig{
			Mode:            DisplayAuto,
			RefreshInterval: 250 * time.Millisecond,
			MaxFailures:     10,
		},
		Storage: StorageConfig{
			Path: filepath.Join(home, "gesturectl.db"),
		},
		Screenshots: ScreenshotConfig{
			Dir: filepath.Join(home, "screenshots"),
		},
		Log: LogConfig{
			File: filepath.Join(home, "gesturectl.log"),
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults
// when allowMissing is set.
func Load(path string, allowMissing bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Camera.Device >= 0, "camera.device must be >= 0")
	check(c.Camera.Width > 0 && c.Camera.Height > 0, "camera size must be positive")
	check(c.Camera.FPS > 0, "camera.fps must be positive")
	check(c.Detector.MaxHands >= 1, "detector.max_hands must be >= 1")
	check(inUnit(c.Detector.MinConfidence), "detector.min_confidence must be in [0,1]")
	check(inUnit(c.Detector.MinTrackingConfidence), "detector.min_tracking_confidence must be in [0,1]")
	check(c.Gestures.EdgeCooldown > 0, "gestures.edge_cooldown must be positive")
	check(c.Gestures.LevelCooldown > 0, "gestures.level_cooldown must be positive")
	check(c.Playback.InitialVolume >= 0 && c.Playback.InitialVolume <= 100, "playback.initial_volume must be in [0,100]")
	check(c.Playback.VolumeStep > 0 && c.Playback.VolumeStep <= 100, "playback.volume_step must be in [1,100]")
	check(c.Dispatch.Timeout > 0, "dispatch.timeout must be positive")
	check(c.Display.Mode == DisplayAuto || c.Display.Mode == DisplayTUI || c.Display.Mode == DisplayLog,
		"display.mode must be one of auto, tui, log (got %q)", c.Display.Mode)
	check(c.Display.RefreshInterval > 0, "display.refresh_interval must be positive")
	check(c.Display.MaxFailures > 0, "display.max_failures must be positive")

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
