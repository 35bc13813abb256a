// Package config loads the embedded tuning table.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/headshooter/internal/capture"
	"github.com/ayusman/headshooter/internal/detector"
	"github.com/ayusman/headshooter/internal/game"
	"github.com/ayusman/headshooter/internal/input"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full tuning table.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Detector   DetectorConfig   `yaml:"detector"`
	Player     PlayerConfig     `yaml:"player"`
	Input      InputConfig      `yaml:"input"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Rules      RulesConfig      `yaml:"rules"`
}

// WindowConfig describes the playfield window and tick rate.
type WindowConfig struct {
	Title  string `yaml:"title" validate:"required"`
	Width  int    `yaml:"width" validate:"gt=0"`
	Height int    `yaml:"height" validate:"gt=0"`
	TPS    int    `yaml:"tps" validate:"gt=0"`
}

// CameraConfig selects the webcam. Zero sizes and rates fall back to the capture defaults.
type CameraConfig struct {
	Device int  `yaml:"device" validate:"gte=0"`
	Width  int  `yaml:"width" validate:"gte=0"`
	Height int  `yaml:"height" validate:"gte=0"`
	FPS    int  `yaml:"fps" validate:"gte=0"`
	Mirror bool `yaml:"mirror"`
}

type DetectorConfig struct {
	MaxFaces               int     `yaml:"maxFaces" validate:"min=1"`
	RefineLandmarks        bool    `yaml:"refineLandmarks"`
	MinDetectionConfidence float64 `yaml:"minDetectionConfidence" validate:"gte=0,lte=1"`
	MinTrackingConfidence  float64 `yaml:"minTrackingConfidence" validate:"gte=0,lte=1"`
}

type PlayerConfig struct {
	Width     float64 `yaml:"width" validate:"gt=0"`
	Height    float64 `yaml:"height" validate:"gt=0"`
	BottomGap float64 `yaml:"bottomGap" validate:"gte=0"`
	Smoothing float64 `yaml:"smoothing" validate:"gt=0,lte=1"`
}

// InputConfig holds calibration, steering and blink tuning.
type InputConfig struct {
	Calibration    time.Duration `yaml:"calibration" validate:"gt=0"`
	DeadZone       float64       `yaml:"deadZone" validate:"gte=0"`
	Gain           float64       `yaml:"gain" validate:"gt=0"`
	MaxSpeed       float64       `yaml:"maxSpeed" validate:"gt=0"`
	BlinkThreshold float64       `yaml:"blinkThreshold" validate:"gt=0"`
	FireCooldown   int           `yaml:"fireCooldown" validate:"gte=0"`
}

type ProjectileConfig struct {
	Size  float64 `yaml:"size" validate:"gt=0"`
	Speed float64 `yaml:"speed" validate:"gt=0"`
}

type EnemyConfig struct {
	Width       float64 `yaml:"width" validate:"gt=0"`
	Height      float64 `yaml:"height" validate:"gt=0"`
	Speed       float64 `yaml:"speed" validate:"gt=0"`
	SpawnMargin float64 `yaml:"spawnMargin" validate:"gte=0"`
	SpawnRight  float64 `yaml:"spawnRightMargin" validate:"gte=0"`
	SpawnChance int     `yaml:"spawnChance" validate:"min=1"`
}

type RulesConfig struct {
	Lives           int `yaml:"lives" validate:"min=1,max=3"`
	InvincibleTicks int `yaml:"invincibleTicks" validate:"gte=0"`
}

var validate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load returns the embedded default tuning table.
func Load() (*Config, error) {
	return Parse(defaultsYAML)
}

// Parse decodes and validates a tuning table.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every value is usable by the game loop.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}

		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			_, path, _ := strings.Cut(fe.Namespace(), ".")
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s, got %v", path, fe.Tag(), fe.Param(), fe.Value()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	if c.Player.Width > float64(c.Window.Width) {
		return fmt.Errorf("player width %.1f exceeds window width %d", c.Player.Width, c.Window.Width)
	}
	if span := float64(c.Window.Width) - c.Enemy.Width - c.Enemy.SpawnMargin - c.Enemy.SpawnRight; span < 0 {
		return fmt.Errorf("enemy spawn range is empty: width %d, enemy %.1f, margins %.1f/%.1f",
			c.Window.Width, c.Enemy.Width, c.Enemy.SpawnMargin, c.Enemy.SpawnRight)
	}

	return nil
}

// Game returns the playfield and rules tuning.
func (c *Config) Game() game.Config {
	return game.Config{
		Width:            float64(c.Window.Width),
		Height:           float64(c.Window.Height),
		PlayerWidth:      c.Player.Width,
		PlayerHeight:     c.Player.Height,
		PlayerBottomGap:  c.Player.BottomGap,
		Smoothing:        c.Player.Smoothing,
		ProjectileSize:   c.Projectile.Size,
		ProjectileSpeed:  c.Projectile.Speed,
		EnemyWidth:       c.Enemy.Width,
		EnemyHeight:      c.Enemy.Height,
		EnemySpeed:       c.Enemy.Speed,
		EnemySpawnMargin: c.Enemy.SpawnMargin,
		EnemySpawnRight:  c.Enemy.SpawnRight,
		SpawnChance:      c.Enemy.SpawnChance,
		Lives:            c.Rules.Lives,
		InvincibleTicks:  c.Rules.InvincibleTicks,
	}
}

// InputMapper returns the steering and fire tuning.
func (c *Config) InputMapper() input.Config {
	return input.Config{
		DeadZone:       c.Input.DeadZone,
		Gain:           c.Input.Gain,
		MaxSpeed:       c.Input.MaxSpeed,
		BlinkThreshold: c.Input.BlinkThreshold,
		FireCooldown:   c.Input.FireCooldown,
	}
}

// FaceDetector returns the landmark service options.
func (c *Config) FaceDetector() detector.Config {
	return detector.Config{
		MaxFaces:        c.Detector.MaxFaces,
		RefineLandmarks: c.Detector.RefineLandmarks,
		MinConfidence:   c.Detector.MinDetectionConfidence,
		MinTrackingConf: c.Detector.MinTrackingConfidence,
	}
}

// CameraOptions returns the capture device options.
func (c *Config) CameraOptions() capture.Options {
	return capture.Options{
		DeviceID: c.Camera.Device,
		Width:    c.Camera.Width,
		Height:   c.Camera.Height,
		FPS:      c.Camera.FPS,
		Mirror:   c.Camera.Mirror,
	}
}
