// Package config loads sightline settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sightlinelabs/go-sightline/pkg/scene"
	"github.com/sightlinelabs/go-sightline/pkg/vision"
)

// Config holds all sightline settings. Durations are expressed in seconds
// in the YAML file, matching the tuning knobs people already know from the
// engine defaults.
type Config struct {
	Camera    Camera    `yaml:"camera"`
	Detector  Detector  `yaml:"detector"`
	Describer Describer `yaml:"describer"`
	Watchdog  Watchdog  `yaml:"watchdog"`
	Toggle    Toggle    `yaml:"toggle"`
	Speech    Speech    `yaml:"speech"`
	Log       Log       `yaml:"log"`
}

// Camera selects and sizes the capture device.
type Camera struct {
	Device int `yaml:"device"` // V4L2 / AVFoundation device index
	Width  int `yaml:"width"`  // Capture width in pixels
	Height int `yaml:"height"` // Capture height in pixels
}

// Detector configures the YOLO model.
type Detector struct {
	ModelPath        string  `yaml:"model_path"`
	ConfidenceThresh float64 `yaml:"confidence_threshold"`
	NMSThresh        float64 `yaml:"nms_threshold"`
}

// Describer configures the spatial describer.
type Describer struct {
	CooldownSeconds     float64  `yaml:"cooldown_seconds"`
	SimilarityThreshold float64  `yaml:"similarity_threshold"`
	LargeObjects        []string `yaml:"large_objects"`
}

// Watchdog configures the alert engine.
type Watchdog struct {
	CooldownSeconds    float64  `yaml:"cooldown_seconds"`
	EmptySceneCooldown float64  `yaml:"empty_scene_cooldown_seconds"`
	MinConfidence      float64  `yaml:"min_confidence"`
	MinPersistence     float64  `yaml:"min_persistence_seconds"`
	ImportantObjects   []string `yaml:"important_objects"`
}

// Toggle configures the watchdog-mode toggle.
type Toggle struct {
	Trigger         string  `yaml:"trigger"`
	CooldownSeconds float64 `yaml:"cooldown_seconds"`
}

// Synthesizer is one text-to-speech candidate command.
type Synthesizer struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`
}

// Speech configures spoken output.
type Speech struct {
	// Synthesizers are tried in order; the first one found on PATH that
	// speaks successfully wins.
	Synthesizers []Synthesizer `yaml:"synthesizers"`
	Mute         bool          `yaml:"mute"`
}

// Log configures logging output.
type Log struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

var (
	errConfidenceRange = errors.New("config: confidence thresholds must be in [0,1]")
	errSimilarityRange = errors.New("config: similarity threshold must be in [0,1]")
	errNegativeTiming  = errors.New("config: cooldowns and persistence must not be negative")
	errNoModel         = errors.New("config: detector model_path is required")
)

// Default returns the built-in settings, matching the engine defaults.
func Default() Config {
	describer := scene.DefaultDescriberConfig()
	watchdog := scene.DefaultWatchdogConfig()
	toggle := scene.DefaultToggleConfig()
	yolo := vision.DefaultYOLOConfig()

	return Config{
		Camera: Camera{Device: 0, Width: 800, Height: 480},
		Detector: Detector{
			ModelPath:        yolo.ModelPath,
			ConfidenceThresh: float64(yolo.ConfidenceThresh),
			NMSThresh:        float64(yolo.NMSThresh),
		},
		Describer: Describer{
			CooldownSeconds:     describer.Cooldown.Seconds(),
			SimilarityThreshold: describer.SimilarityThreshold,
			LargeObjects:        describer.LargeObjects,
		},
		Watchdog: Watchdog{
			CooldownSeconds:    watchdog.Cooldown.Seconds(),
			EmptySceneCooldown: watchdog.EmptySceneCooldown.Seconds(),
			MinConfidence:      watchdog.MinConfidence,
			MinPersistence:     watchdog.MinPersistence.Seconds(),
			ImportantObjects:   watchdog.ImportantObjects,
		},
		Toggle: Toggle{
			Trigger:         toggle.Trigger,
			CooldownSeconds: toggle.Cooldown.Seconds(),
		},
		Speech: Speech{
			Synthesizers: []Synthesizer{
				{Binary: "say"},
				{Binary: "espeak", Args: []string{"-s", "150"}},
				{Binary: "flite", Args: []string{"-t"}},
			},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads settings from path, layered over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks value ranges. Zero cooldowns are allowed (announce every
// tick); negative ones are not.
func (c Config) Validate() error {
	if c.Detector.ModelPath == "" {
		return errNoModel
	}
	if !in01(c.Detector.ConfidenceThresh) || !in01(c.Watchdog.MinConfidence) {
		return errConfidenceRange
	}
	if !in01(c.Describer.SimilarityThreshold) {
		return errSimilarityRange
	}
	if c.Describer.CooldownSeconds < 0 || c.Watchdog.CooldownSeconds < 0 ||
		c.Watchdog.EmptySceneCooldown < 0 || c.Watchdog.MinPersistence < 0 ||
		c.Toggle.CooldownSeconds < 0 {
		return errNegativeTiming
	}
	return nil
}

// DescriberConfig converts the settings into engine configuration.
func (c Config) DescriberConfig() scene.DescriberConfig {
	return scene.DescriberConfig{
		Cooldown:            seconds(c.Describer.CooldownSeconds),
		SimilarityThreshold: c.Describer.SimilarityThreshold,
		LargeObjects:        c.Describer.LargeObjects,
	}
}

// WatchdogConfig converts the settings into engine configuration.
func (c Config) WatchdogConfig() scene.WatchdogConfig {
	return scene.WatchdogConfig{
		Cooldown:           seconds(c.Watchdog.CooldownSeconds),
		EmptySceneCooldown: seconds(c.Watchdog.EmptySceneCooldown),
		MinConfidence:      c.Watchdog.MinConfidence,
		MinPersistence:     seconds(c.Watchdog.MinPersistence),
		ImportantObjects:   c.Watchdog.ImportantObjects,
	}
}

// ToggleConfig converts the settings into engine configuration.
func (c Config) ToggleConfig() scene.ToggleConfig {
	return scene.ToggleConfig{
		Trigger:  c.Toggle.Trigger,
		Cooldown: seconds(c.Toggle.CooldownSeconds),
	}
}

// YOLOConfig converts the settings into detector configuration.
func (c Config) YOLOConfig() vision.YOLOConfig {
	cfg := vision.DefaultYOLOConfig()
	cfg.ModelPath = c.Detector.ModelPath
	cfg.ConfidenceThresh = float32(c.Detector.ConfidenceThresh)
	cfg.NMSThresh = float32(c.Detector.NMSThresh)
	return cfg
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func in01(v float64) bool {
	return v >= 0 && v <= 1
}
