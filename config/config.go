// Package config provides configuration loading and access for the solver and its front ends.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Container ContainerConfig `yaml:"container"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Lattice   LatticeConfig   `yaml:"lattice"`
	Stream    StreamConfig    `yaml:"stream"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ContainerConfig is the axis-aligned box holding the fluid.
type ContainerConfig struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

// FluidConfig holds the physical constants of the solver.
type FluidConfig struct {
	SmoothingRadius    float64    `yaml:"smoothing_radius"` // h, also the grid cell size
	RestDensity        float64    `yaml:"rest_density"`
	Stiffness          float64    `yaml:"stiffness"`
	Viscosity          float64    `yaml:"viscosity"`
	SurfaceTension     float64    `yaml:"surface_tension"`
	Gravity            [3]float64 `yaml:"gravity"`
	Damping            float64    `yaml:"damping"` // velocity multiplier per step, (0, 1]
	TimeStep           float64    `yaml:"time_step"`
	MaxVelocity        float64    `yaml:"max_velocity"`
	BoundaryStiffness  float64    `yaml:"boundary_stiffness"`
	EnableTemperature  bool       `yaml:"enable_temperature"`
	ThermalDiffusivity float64    `yaml:"thermal_diffusivity"`
}

// LatticeConfig describes the initial particle block.
type LatticeConfig struct {
	ParticleCount      int     `yaml:"particle_count"` // store capacity
	Count              int     `yaml:"count"`          // placed at start, 0 = particle_count
	Spacing            float64 `yaml:"spacing"`        // 0 = derive from smoothing radius
	ParticleMass       float64 `yaml:"particle_mass"`
	InitialTemperature float64 `yaml:"initial_temperature"`
	TemperatureNoise   float64 `yaml:"temperature_noise"` // opensimplex amplitude in kelvin
	NoiseScale         float64 `yaml:"noise_scale"`
	Seed               int64   `yaml:"seed"`
}

// StreamConfig holds particle injection defaults.
type StreamConfig struct {
	Count       int        `yaml:"count"`
	Origin      [3]float64 `yaml:"origin"`
	Velocity    [3]float64 `yaml:"velocity"`
	Temperature float64    `yaml:"temperature"`
	Jitter      float64    `yaml:"jitter"`
	Life        float64    `yaml:"life"` // seconds, 0 = immortal
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64      `yaml:"stats_window"` // simulated seconds per stats row
	PerfCollectorWindow int          `yaml:"perf_collector_window"`
	EventHistorySize    int          `yaml:"event_history_size"`
	Events              EventsConfig `yaml:"events"`
}

// EventsConfig holds the thresholds of the stability event detector.
type EventsConfig struct {
	CompressionFactor   float64 `yaml:"compression_factor"`    // density error spike vs rolling average
	CompressionMinError float64 `yaml:"compression_min_error"` // ignore spikes below this relative error
	SaturationFraction  float64 `yaml:"saturation_fraction"`   // fraction of particles at the velocity clamp
	SettleSpeed         float64 `yaml:"settle_speed"`          // mean speed below which the fluid is at rest
	SettleWindows       int     `yaml:"settle_windows"`
	ThermalStd          float64 `yaml:"thermal_std"` // temperature spread counted as equilibrium, kelvin
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	LatticeSpacing float64 // Lattice.Spacing, or half the smoothing radius when unset
	StreamLife     float64 // Stream.Life, with 0 mapped to +Inf
	ScreenW32      float32
	ScreenH32      float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.LatticeSpacing = c.Lattice.Spacing
	if c.Derived.LatticeSpacing <= 0 {
		c.Derived.LatticeSpacing = c.Fluid.SmoothingRadius * 0.5
	}

	c.Derived.StreamLife = c.Stream.Life
	if c.Derived.StreamLife <= 0 {
		c.Derived.StreamLife = math.Inf(1)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
