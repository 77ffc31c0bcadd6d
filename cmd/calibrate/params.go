package main

import (
	"math"

	"github.com/pthm-cable/sph/config"
)

// ParamSpec defines a single calibrated parameter. Log parameters are
// searched over log10 of their value.
type ParamSpec struct {
	Name    string
	Path    string // config path for logging
	Min     float64
	Max     float64
	Default float64
	Log     bool
}

// ParamVector holds the set of calibrated parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of calibrated parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "stiffness", Path: "fluid.stiffness", Min: 0.3, Max: 100, Default: 3, Log: true},
			{Name: "viscosity", Path: "fluid.viscosity", Min: 0.1, Max: 20, Default: 3.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

func (s ParamSpec) scale(v float64) float64 {
	if s.Log {
		return math.Log10(v)
	}
	return v
}

func (s ParamSpec) unscale(v float64) float64 {
	if s.Log {
		return math.Pow(10, v)
	}
	return v
}

// Normalize converts raw parameter values to the [0,1] search range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		lo, hi := spec.scale(spec.Min), spec.scale(spec.Max)
		normalized[i] = (spec.scale(raw[i]) - lo) / (hi - lo)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		lo, hi := spec.scale(spec.Min), spec.scale(spec.Max)
		raw[i] = spec.unscale(lo + normalized[i]*(hi-lo))
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Fluid.Stiffness = clamped[0]
	cfg.Fluid.Viscosity = clamped[1]
}
