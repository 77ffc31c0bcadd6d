package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DensityFloorFraction bounds density from below as a fraction of the
// rest density, keeping the equation of state well defined.
const DensityFloorFraction = 0.1

// eosExponent is the Tait exponent of the equation of state.
const eosExponent = 7

// FluidParams are the physical constants read by the solver stages.
// They are fixed for the duration of a step.
type FluidParams struct {
	H                  float64
	RestDensity        float64
	Stiffness          float64
	Viscosity          float64
	SurfaceTension     float64
	ThermalDiffusivity float64
	Gravity            r3.Vec
	Damping            float64
	MaxVelocity        float64
	TimeStep           float64
}

// DensityFloor returns the minimum admissible density.
func (f FluidParams) DensityFloor() float64 {
	return f.RestDensity * DensityFloorFraction
}

// Pressure evaluates the Tait-like equation of state.
func (f FluidParams) Pressure(density float64) float64 {
	return f.Stiffness * (math.Pow(density/f.RestDensity, eosExponent) - 1)
}
