// Package config defines the on-disk configuration of an OWI arm session.
package config

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/owiarm/animation"
	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/referenceframe"
	"go.viam.com/owiarm/safety"
)

// DefaultTickRateHz is the tick rate used when none is configured.
const DefaultTickRateHz = 60.

// Config describes a session: optional bound overrides, playback timing, the safety plane, and a keyframe list.
type Config struct {
	Limits           []referenceframe.Limit `json:"limits,omitempty" jsonschema:"description=per joint bounds overriding the defaults"`
	FramesPerSegment int                    `json:"frames_per_segment,omitempty" jsonschema:"description=ticks between keyframes"`
	TickRateHz       float64                `json:"tick_rate_hz,omitempty" jsonschema:"description=real time tick rate"`
	SafetyPlaneY     *float64               `json:"safety_plane_y,omitempty" jsonschema:"description=height above which the arm moves freely"`
	Keyframes        [][]float64            `json:"keyframes,omitempty" jsonschema:"description=saved poses of five whole numbers"`
	LogLevel         string                 `json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`

	ConfigFilePath string `json:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{}
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (c *Config) Validate(path string) error {
	var err error
	limits := c.ResolvedLimits()
	if c.Limits != nil {
		if lErr := referenceframe.ValidateLimits(c.Limits); lErr != nil {
			err = multierr.Append(err, goutils.NewConfigValidationError(path+".limits", lErr))
			limits = referenceframe.DefaultLimits()
		}
	}
	if c.FramesPerSegment < 0 {
		err = multierr.Append(err, goutils.NewConfigValidationError(path,
			errors.Errorf("frames_per_segment must not be negative, got %d", c.FramesPerSegment)))
	}
	if c.TickRateHz < 0 || math.IsInf(c.TickRateHz, 0) || math.IsNaN(c.TickRateHz) {
		err = multierr.Append(err, goutils.NewConfigValidationError(path,
			errors.Errorf("tick_rate_hz must be a positive number, got %v", c.TickRateHz)))
	}
	if c.LogLevel != "" {
		if _, lvlErr := logging.LevelFromString(c.LogLevel); lvlErr != nil {
			err = multierr.Append(err, goutils.NewConfigValidationError(path, lvlErr))
		}
	}
	for i, kf := range c.Keyframes {
		if kfErr := ValidateKeyframe(kf, limits); kfErr != nil {
			err = multierr.Append(err, goutils.NewConfigValidationError(fmt.Sprintf("%s.keyframes.%d", path, i), kfErr))
		}
	}
	return err
}

// ValidateKeyframe checks that kf has one whole number per joint, each within its limit.
func ValidateKeyframe(kf []float64, limits []referenceframe.Limit) error {
	if len(kf) != referenceframe.DoF {
		return referenceframe.NewIncorrectDoFError(len(kf), referenceframe.DoF)
	}
	fractional := lo.Filter(kf, func(v float64, _ int) bool { return v != math.Trunc(v) })
	if len(fractional) > 0 {
		return errors.Errorf("keyframe values must be whole numbers, got %v", fractional)
	}
	return referenceframe.CheckBounds(limits, kf)
}

// ResolvedLimits returns the configured limits or the defaults.
func (c *Config) ResolvedLimits() []referenceframe.Limit {
	if len(c.Limits) == 0 {
		return referenceframe.DefaultLimits()
	}
	return append([]referenceframe.Limit(nil), c.Limits...)
}

// ResolvedFramesPerSegment returns the configured segment length or the default.
func (c *Config) ResolvedFramesPerSegment() int {
	if c.FramesPerSegment <= 0 {
		return animation.DefaultFramesPerSegment
	}
	return c.FramesPerSegment
}

// ResolvedTickRateHz returns the configured tick rate or the default.
func (c *Config) ResolvedTickRateHz() float64 {
	if c.TickRateHz <= 0 {
		return DefaultTickRateHz
	}
	return c.TickRateHz
}

// ResolvedPlaneY returns the configured safety plane height or the default.
func (c *Config) ResolvedPlaneY() float64 {
	if c.SafetyPlaneY == nil {
		return safety.DefaultPlaneY
	}
	return *c.SafetyPlaneY
}

// ResolvedLogLevel returns the configured log level, defaulting to info.
func (c *Config) ResolvedLogLevel() logging.Level {
	lvl, err := logging.LevelFromString(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return logging.INFO
	}
	return lvl
}
