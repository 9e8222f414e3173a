// Package config holds the immutable startup configuration.
//
// Values resolve in order: Default(), then an optional .env file and the
// process environment (MOODFLIGHT_* keys), then command-line flags applied by
// the caller. The resulting Config is validated once and never mutated.
package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/lixenwraith/moodflight/constants"
)

// EnvPrefix namespaces every environment key read by FromEnv
const EnvPrefix = "MOODFLIGHT_"

// Config carries every tuning and wiring input of the simulation
type Config struct {
	FrameRate int

	// Sentiment controller
	PositiveThreshold int
	NegativeThreshold int
	VelocityIncrement float64
	VelocityCeiling   float64

	// Phase velocities
	HyperspeedVelocity float64
	CruiseVelocity     float64

	HazardVelocity float64
	MarkerDrift    float64
	MaxMarkers     int
	StarCount      int

	// Seed drives every random placement; equal seeds replay identically
	Seed int64

	// Fallback viewport used until the presenter reports one
	ViewportWidth  float64
	ViewportHeight float64

	LogLevel  string
	LogFormat string
	LogFile   string

	// JournalPath enables the sqlite sentiment journal when non-empty
	JournalPath string

	Audio    bool
	Headless bool
}

// Default returns the tuning of the original flight
func Default() Config {
	return Config{
		FrameRate:          constants.DefaultFrameRate,
		PositiveThreshold:  constants.PositiveThreshold,
		NegativeThreshold:  constants.NegativeThreshold,
		VelocityIncrement:  constants.VelocityIncrement,
		VelocityCeiling:    constants.VelocityCeiling,
		HyperspeedVelocity: constants.HyperspeedVelocity,
		CruiseVelocity:     constants.CruiseVelocity,
		HazardVelocity:     constants.HazardVelocity,
		MarkerDrift:        constants.MarkerDrift,
		MaxMarkers:         constants.MaxMarkers,
		StarCount:          constants.StarCount,
		Seed:               1,
		ViewportWidth:      constants.DefaultViewportWidth,
		ViewportHeight:     constants.DefaultViewportHeight,
		LogLevel:           "info",
		LogFormat:          "text",
		LogFile:            "logs/moodflight.log",
		Audio:              true,
	}
}

// Load reads envFile (a missing file is not an error) and applies the
// environment on top of Default()
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "load %s", envFile)
		}
	}
	return FromEnv(Default())
}

// FromEnv overrides base with any MOODFLIGHT_* variables present
func FromEnv(base Config) (Config, error) {
	c := base
	for _, b := range c.bindings() {
		raw, ok := os.LookupEnv(EnvPrefix + b.key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := b.set(strings.TrimSpace(raw)); err != nil {
			return Config{}, errors.Wrapf(err, "env %s%s", EnvPrefix, b.key)
		}
	}
	return c, nil
}

type binding struct {
	key string
	set func(string) error
}

func (c *Config) bindings() []binding {
	return []binding{
		{"FRAME_RATE", intSetter(&c.FrameRate)},
		{"POSITIVE_THRESHOLD", intSetter(&c.PositiveThreshold)},
		{"NEGATIVE_THRESHOLD", intSetter(&c.NegativeThreshold)},
		{"VELOCITY_INCREMENT", floatSetter(&c.VelocityIncrement)},
		{"VELOCITY_CEILING", floatSetter(&c.VelocityCeiling)},
		{"HYPERSPEED_VELOCITY", floatSetter(&c.HyperspeedVelocity)},
		{"CRUISE_VELOCITY", floatSetter(&c.CruiseVelocity)},
		{"HAZARD_VELOCITY", floatSetter(&c.HazardVelocity)},
		{"MARKER_DRIFT", floatSetter(&c.MarkerDrift)},
		{"MAX_MARKERS", intSetter(&c.MaxMarkers)},
		{"STAR_COUNT", intSetter(&c.StarCount)},
		{"SEED", func(s string) error {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return errors.WithStack(err)
			}
			c.Seed = v
			return nil
		}},
		{"VIEWPORT_WIDTH", floatSetter(&c.ViewportWidth)},
		{"VIEWPORT_HEIGHT", floatSetter(&c.ViewportHeight)},
		{"LOG_LEVEL", stringSetter(&c.LogLevel)},
		{"LOG_FORMAT", stringSetter(&c.LogFormat)},
		{"LOG_FILE", stringSetter(&c.LogFile)},
		{"JOURNAL", stringSetter(&c.JournalPath)},
		{"AUDIO", boolSetter(&c.Audio)},
		{"HEADLESS", boolSetter(&c.Headless)},
	}
}

func intSetter(dst *int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return errors.WithStack(err)
		}
		*dst = v
		return nil
	}
}

func floatSetter(dst *float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.WithStack(err)
		}
		*dst = v
		return nil
	}
}

func boolSetter(dst *bool) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return errors.WithStack(err)
		}
		*dst = v
		return nil
	}
}

func stringSetter(dst *string) func(string) error {
	return func(s string) error {
		*dst = s
		return nil
	}
}

// ErrInvalid is the cause of every Validate failure
var ErrInvalid = errors.New("invalid config")

// Validate rejects values the simulation cannot run with
func (c Config) Validate() error {
	switch {
	case c.FrameRate <= 0:
		return errors.Wrapf(ErrInvalid, "frame rate %d must be positive", c.FrameRate)
	case c.PositiveThreshold < 0:
		return errors.Wrapf(ErrInvalid, "positive threshold %d must not be negative", c.PositiveThreshold)
	case c.NegativeThreshold < 0:
		return errors.Wrapf(ErrInvalid, "negative threshold %d must not be negative", c.NegativeThreshold)
	case c.VelocityIncrement <= 0:
		return errors.Wrapf(ErrInvalid, "velocity increment %g must be positive", c.VelocityIncrement)
	case c.VelocityCeiling <= 0:
		return errors.Wrapf(ErrInvalid, "velocity ceiling %g must be positive", c.VelocityCeiling)
	case c.StarCount <= 0:
		return errors.Wrapf(ErrInvalid, "star count %d must be positive", c.StarCount)
	case c.MaxMarkers <= 0:
		return errors.Wrapf(ErrInvalid, "max markers %d must be positive", c.MaxMarkers)
	case c.ViewportWidth <= 0 || c.ViewportHeight <= 0:
		return errors.Wrapf(ErrInvalid, "fallback viewport %gx%g must be positive", c.ViewportWidth, c.ViewportHeight)
	}
	return nil
}

// TickInterval is the delay between the end of one step and the start of the next
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
