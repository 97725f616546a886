package caster

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/filter"
	"github.com/ayusman/spellcast/internal/gesture"
)

// Setting keys understood by ApplySettings.
const (
	SettingCooldownMs     = "cooldown_ms"
	SettingSmoother       = "smoother"
	SettingMinConfidence  = "min_confidence"
	SettingPreferStraight = "prefer_straight"
)

// ErrInvalidViewport is returned by Tick for a non-positive viewport size.
var ErrInvalidViewport = errors.New("invalid viewport")

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid caster config")

// Config holds every tunable of the recognition pipeline.
type Config struct {
	Smoother   filter.Config
	Pose       gesture.PoseThresholds
	Recorder   gesture.RecorderConfig
	Classifier gesture.ClassifierConfig

	// Cooldown is the dead time after each classification attempt.
	Cooldown time.Duration
	// FireballOrigin is where fireballs spawn; other spells spawn at the
	// end of the stroke, or here when the stroke is empty.
	FireballOrigin vec.Vec2
}

// DefaultConfig returns the shipped pipeline settings.
func DefaultConfig() Config {
	return Config{
		Smoother:       filter.DefaultConfig(),
		Pose:           gesture.DefaultPoseThresholds(),
		Recorder:       gesture.DefaultRecorderConfig(),
		Classifier:     gesture.DefaultClassifierConfig(),
		Cooldown:       700 * time.Millisecond,
		FireballOrigin: vec.Vec2{X: 40, Y: 200},
	}
}

// Validate rejects settings that would break the pipeline.
func (c Config) Validate() error {
	switch {
	case c.Cooldown < 0:
		return fmt.Errorf("%w: negative cooldown %v", ErrInvalidConfig, c.Cooldown)
	case c.Recorder.MaxPoints <= 0:
		return fmt.Errorf("%w: max stroke points must be positive, got %d", ErrInvalidConfig, c.Recorder.MaxPoints)
	case c.Recorder.SpeedAlpha <= 0 || c.Recorder.SpeedAlpha > 1:
		return fmt.Errorf("%w: speed alpha must be in (0, 1], got %f", ErrInvalidConfig, c.Recorder.SpeedAlpha)
	case c.Recorder.BaseStep < 0:
		return fmt.Errorf("%w: negative base step %f", ErrInvalidConfig, c.Recorder.BaseStep)
	case c.Smoother.MinCutoff <= 0 || c.Smoother.DerivativeCutoff <= 0:
		return fmt.Errorf("%w: smoother cutoffs must be positive", ErrInvalidConfig)
	}
	if _, err := filter.New(c.Smoother); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Classifier.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ApplySettings overrides fields from persisted key/value settings.
// Unknown keys are ignored so older databases keep loading.
func (c *Config) ApplySettings(settings map[string]string) error {
	for key, value := range settings {
		switch key {
		case SettingCooldownMs:
			ms, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			c.Cooldown = time.Duration(ms) * time.Millisecond
		case SettingSmoother:
			c.Smoother.Kind = value
		case SettingMinConfidence:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			c.Classifier.MinConfidence = f
		case SettingPreferStraight:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			c.Classifier.Policy.PreferStraight = b
		}
	}
	return c.Validate()
}
