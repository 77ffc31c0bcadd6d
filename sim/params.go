package sim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/systems"
)

// AmbientTemperature is the default temperature of injected particles, in kelvin.
const AmbientTemperature = 298.15

// ErrInvalidParams is returned when parameters fail validation.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// Params are the simulation parameters. They are fixed for the duration of
// a step and replaced between steps through UpdateParameters.
type Params struct {
	H                  float64 // smoothing radius and grid cell size
	RestDensity        float64
	Stiffness          float64
	Viscosity          float64
	Gravity            r3.Vec
	Damping            float64 // per-step velocity multiplier in (0, 1]
	TimeStep           float64
	SurfaceTension     float64
	ThermalDiffusivity float64
	EnableTemperature  bool
	MaxVelocity        float64
	ParticleCount      int // capacity of the particle store
	LatticeCount       int // particles placed at start; 0 fills to ParticleCount

	// BoundaryStiffness is stored but not consumed: the boundary uses fixed
	// restitution and friction.
	BoundaryStiffness float64

	ParticleMass       float64
	LatticeSpacing     float64 // 0 means h/2
	InitialTemperature float64
	TemperatureNoise   float64
	NoiseScale         float64

	StreamJitter float64
	StreamLife   float64 // +Inf for immortal stream particles
	Seed         int64
}

// DefaultParams returns a water-like configuration in SI units.
func DefaultParams() Params {
	return Params{
		H:                  0.0457,
		RestDensity:        1000,
		Stiffness:          3,
		Viscosity:          3.5,
		Gravity:            r3.Vec{Y: -9.81},
		Damping:            0.999,
		TimeStep:           0.001,
		ThermalDiffusivity: 0.01,
		MaxVelocity:        10,
		ParticleCount:      2000,
		BoundaryStiffness:  10000,
		ParticleMass:       0.02,
		InitialTemperature: AmbientTemperature,
		NoiseScale:         8,
		StreamJitter:       0.01,
		StreamLife:         math.Inf(1),
		Seed:               1,
	}
}

// Validate reports the first parameter outside its admissible range.
func (p Params) Validate() error {
	switch {
	case !positive(p.H):
		return invalid("h must be positive, got %v", p.H)
	case !positive(p.RestDensity):
		return invalid("rest density must be positive, got %v", p.RestDensity)
	case !nonNegative(p.Stiffness):
		return invalid("stiffness must be non-negative, got %v", p.Stiffness)
	case !nonNegative(p.Viscosity):
		return invalid("viscosity must be non-negative, got %v", p.Viscosity)
	case !nonNegative(p.SurfaceTension):
		return invalid("surface tension must be non-negative, got %v", p.SurfaceTension)
	case !nonNegative(p.ThermalDiffusivity):
		return invalid("thermal diffusivity must be non-negative, got %v", p.ThermalDiffusivity)
	case !(p.Damping > 0 && p.Damping <= 1):
		return invalid("damping must be in (0, 1], got %v", p.Damping)
	case !positive(p.TimeStep):
		return invalid("time step must be positive, got %v", p.TimeStep)
	case !positive(p.MaxVelocity):
		return invalid("max velocity must be positive, got %v", p.MaxVelocity)
	case !nonNegative(p.BoundaryStiffness):
		return invalid("boundary stiffness must be non-negative, got %v", p.BoundaryStiffness)
	case p.ParticleCount < 0:
		return invalid("particle count must be non-negative, got %d", p.ParticleCount)
	case p.LatticeCount < 0 || p.LatticeCount > p.ParticleCount:
		return invalid("lattice count must be in [0, %d], got %d", p.ParticleCount, p.LatticeCount)
	case !positive(p.ParticleMass):
		return invalid("particle mass must be positive, got %v", p.ParticleMass)
	case !nonNegative(p.LatticeSpacing):
		return invalid("lattice spacing must be non-negative, got %v", p.LatticeSpacing)
	case !nonNegative(p.StreamJitter):
		return invalid("stream jitter must be non-negative, got %v", p.StreamJitter)
	case math.IsNaN(p.StreamLife) || p.StreamLife <= 0:
		return invalid("stream life must be positive, got %v", p.StreamLife)
	case !finite(p.Gravity.X) || !finite(p.Gravity.Y) || !finite(p.Gravity.Z):
		return invalid("gravity must be finite, got %v", p.Gravity)
	}
	return nil
}

// fluid extracts the constants read by the solver stages.
func (p Params) fluid() systems.FluidParams {
	return systems.FluidParams{
		H:                  p.H,
		RestDensity:        p.RestDensity,
		Stiffness:          p.Stiffness,
		Viscosity:          p.Viscosity,
		SurfaceTension:     p.SurfaceTension,
		ThermalDiffusivity: p.ThermalDiffusivity,
		Gravity:            p.Gravity,
		Damping:            p.Damping,
		MaxVelocity:        p.MaxVelocity,
		TimeStep:           p.TimeStep,
	}
}

func (p Params) lattice() systems.LatticeSpec {
	spacing := p.LatticeSpacing
	if spacing == 0 {
		spacing = p.H * 0.5
	}
	count := p.LatticeCount
	if count == 0 {
		count = p.ParticleCount
	}
	return systems.LatticeSpec{
		Count:            count,
		Spacing:          spacing,
		Mass:             p.ParticleMass,
		Temperature:      p.InitialTemperature,
		TemperatureNoise: p.TemperatureNoise,
		NoiseScale:       p.NoiseScale,
		Seed:             p.Seed,
	}
}

// ParamsUpdate is a partial parameter change. Nil fields keep their
// current value.
type ParamsUpdate struct {
	H                  *float64
	RestDensity        *float64
	Stiffness          *float64
	Viscosity          *float64
	Gravity            *r3.Vec
	Damping            *float64
	TimeStep           *float64
	SurfaceTension     *float64
	ThermalDiffusivity *float64
	EnableTemperature  *bool
	MaxVelocity        *float64
	ParticleCount      *int
	BoundaryStiffness  *float64
}

// Apply returns p with the non-nil fields of u merged in.
func (u ParamsUpdate) Apply(p Params) Params {
	set(&p.H, u.H)
	set(&p.RestDensity, u.RestDensity)
	set(&p.Stiffness, u.Stiffness)
	set(&p.Viscosity, u.Viscosity)
	set(&p.Gravity, u.Gravity)
	set(&p.Damping, u.Damping)
	set(&p.TimeStep, u.TimeStep)
	set(&p.SurfaceTension, u.SurfaceTension)
	set(&p.ThermalDiffusivity, u.ThermalDiffusivity)
	set(&p.EnableTemperature, u.EnableTemperature)
	set(&p.MaxVelocity, u.MaxVelocity)
	set(&p.ParticleCount, u.ParticleCount)
	set(&p.BoundaryStiffness, u.BoundaryStiffness)
	if p.LatticeCount > p.ParticleCount {
		p.LatticeCount = p.ParticleCount
	}
	return p
}

// Ptr returns a pointer to v, for building a ParamsUpdate inline.
func Ptr[T any](v T) *T {
	return &v
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// ParamsFromConfig builds solver parameters from a loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	f := cfg.Fluid
	l := cfg.Lattice
	return Params{
		H:                  f.SmoothingRadius,
		RestDensity:        f.RestDensity,
		Stiffness:          f.Stiffness,
		Viscosity:          f.Viscosity,
		Gravity:            vec(f.Gravity),
		Damping:            f.Damping,
		TimeStep:           f.TimeStep,
		SurfaceTension:     f.SurfaceTension,
		ThermalDiffusivity: f.ThermalDiffusivity,
		EnableTemperature:  f.EnableTemperature,
		MaxVelocity:        f.MaxVelocity,
		ParticleCount:      l.ParticleCount,
		LatticeCount:       min(l.Count, l.ParticleCount),
		BoundaryStiffness:  f.BoundaryStiffness,
		ParticleMass:       l.ParticleMass,
		LatticeSpacing:     cfg.Derived.LatticeSpacing,
		InitialTemperature: l.InitialTemperature,
		TemperatureNoise:   l.TemperatureNoise,
		NoiseScale:         l.NoiseScale,
		StreamJitter:       cfg.Stream.Jitter,
		StreamLife:         cfg.Derived.StreamLife,
		Seed:               l.Seed,
	}
}

// ContainerFromConfig builds the simulation box from a loaded configuration.
func ContainerFromConfig(cfg *config.Config) components.Container {
	return components.Container{
		Min: vec(cfg.Container.Min),
		Max: vec(cfg.Container.Max),
	}
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

func nonNegative(v float64) bool {
	return finite(v) && v >= 0
}
