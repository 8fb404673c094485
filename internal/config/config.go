package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSunX     = -8.277 // kpc
	DefaultSunZ     = 0.0208 // kpc
	DefaultUSun     = 11.1   // km/s
	DefaultVSun     = 12.24  // km/s
	DefaultWSun     = 7.25   // km/s
	DefaultVcirc    = 220.0  // km/s
	DefaultBPVcirc  = 234.0  // km/s
	DefaultBPScale  = 3.0    // kpc
	DefaultBPExp    = -0.55
	DefaultGridSize = 101
)

const (
	CurveFlat        = "flat"
	CurveSolidBody   = "solidbody"
	CurveBP          = "bp"
	CurveMWPotential = "mwpotential"
)

// CurveKinds lists the rotation curve kinds a config may name.
var CurveKinds = []string{CurveFlat, CurveSolidBody, CurveBP, CurveMWPotential}

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Sun       SunConfig       `yaml:"sun"`
	Curve     CurveConfig     `yaml:"curve"`
	Grid      GridConfig      `yaml:"grid"`
	Longitude LongitudeConfig `yaml:"longitude"`
}

type SunConfig struct {
	Position         []float64 `yaml:"position"`          // kpc
	PeculiarVelocity []float64 `yaml:"peculiar_velocity"` // km/s
}

type CurveConfig struct {
	Kind        string  `yaml:"kind"`
	Vcirc       float64 `yaml:"vcirc"`        // flat speed, or the speed at Rsun
	Rsun        float64 `yaml:"rsun"`         // kpc, 0 derives it from the Sun's position
	ScaleLength float64 `yaml:"scale_length"` // kpc, bp only
	Exponent    float64 `yaml:"exponent"`     // bp only
}

type GridConfig struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
	NX   int     `yaml:"nx"`
	NY   int     `yaml:"ny"`
	Z    float64 `yaml:"z"`
}

// LongitudeConfig drives the longitude sweeps; angles in degrees.
type LongitudeConfig struct {
	Distance float64 `yaml:"distance"` // kpc
	B        float64 `yaml:"b"`
	Step     float64 `yaml:"step"`
}

func DefaultConfig() *Config {
	return &Config{
		Sun: SunConfig{
			Position:         []float64{DefaultSunX, 0, DefaultSunZ},
			PeculiarVelocity: []float64{DefaultUSun, DefaultVSun, DefaultWSun},
		},
		Curve: CurveConfig{
			Kind:        CurveFlat,
			Vcirc:       DefaultVcirc,
			ScaleLength: DefaultBPScale,
			Exponent:    DefaultBPExp,
		},
		Grid: GridConfig{
			XMin: -16,
			XMax: 0,
			YMin: -8,
			YMax: 8,
			NX:   DefaultGridSize,
			NY:   DefaultGridSize,
		},
		Longitude: LongitudeConfig{
			Distance: 1.0,
			B:        0,
			Step:     2,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.Sun.Position) != 3 {
		return fmt.Errorf("%w: sun.position needs 3 components, got %d", ErrInvalidConfig, len(c.Sun.Position))
	}
	if len(c.Sun.PeculiarVelocity) != 3 {
		return fmt.Errorf("%w: sun.peculiar_velocity needs 3 components, got %d", ErrInvalidConfig, len(c.Sun.PeculiarVelocity))
	}
	if !knownKind(c.Curve.Kind) {
		return fmt.Errorf("%w: unknown curve kind %q (available: %v)", ErrInvalidConfig, c.Curve.Kind, CurveKinds)
	}
	if c.Curve.Rsun < 0 {
		return fmt.Errorf("%w: curve.rsun must not be negative", ErrInvalidConfig)
	}
	if c.Grid.NX < 1 || c.Grid.NY < 1 {
		return fmt.Errorf("%w: grid needs at least one cell per axis", ErrInvalidConfig)
	}
	if c.Longitude.Step <= 0 {
		return fmt.Errorf("%w: longitude.step must be positive", ErrInvalidConfig)
	}
	return nil
}

func knownKind(kind string) bool {
	for _, k := range CurveKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (c *Config) SunPosition() r3.Vec {
	return vec(c.Sun.Position)
}

func (c *Config) PeculiarVelocity() r3.Vec {
	return vec(c.Sun.PeculiarVelocity)
}

// SolarRadius is curve.rsun when set, otherwise the Sun's cylindrical radius.
func (c *Config) SolarRadius() float64 {
	if c.Curve.Rsun > 0 {
		return c.Curve.Rsun
	}
	p := c.SunPosition()
	return math.Hypot(p.X, p.Y)
}

func vec(v []float64) r3.Vec {
	if len(v) < 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
