// Package components defines the plain data records shared by the solver stages.
package components

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// Particle is one fluid sample. Records live in a contiguous arena owned by
// the particle store; ID is the only identity used for self-exclusion.
type Particle struct {
	ID uint64

	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec // transient, valid after integration
	Force        r3.Vec // accumulator, reset every step

	Mass        float64
	Density     float64
	Pressure    float64 // signed, negative is tensile
	Temperature float64

	Age  float64
	Life float64 // +Inf for particles that never expire

	Color colorful.Color // rendering hint only
}

// Speed returns the magnitude of the particle's velocity.
func (p *Particle) Speed() float64 {
	return r3.Norm(p.Velocity)
}

// Expired reports whether the particle has outlived its life span.
func (p *Particle) Expired() bool {
	return p.Age >= p.Life
}

// ErrInvalidContainer is returned for degenerate simulation domains.
var ErrInvalidContainer = errors.New("invalid container")

// Container is the static axis-aligned simulation domain.
type Container struct {
	Min, Max r3.Vec
}

// Validate checks that the box has positive extent on every axis.
func (c Container) Validate() error {
	e := c.Extent()
	if !(e.X > 0 && e.Y > 0 && e.Z > 0) {
		return fmt.Errorf("%w: extent %v must be positive on every axis", ErrInvalidContainer, e)
	}
	if math.IsInf(e.X+e.Y+e.Z, 0) {
		return fmt.Errorf("%w: extent must be finite", ErrInvalidContainer)
	}
	return nil
}

// Extent returns Max - Min.
func (c Container) Extent() r3.Vec {
	return r3.Sub(c.Max, c.Min)
}

// Center returns the midpoint of the box.
func (c Container) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(c.Min, c.Max))
}

// Contains reports whether p lies inside the box, bounds inclusive.
func (c Container) Contains(p r3.Vec) bool {
	return p.X >= c.Min.X && p.X <= c.Max.X &&
		p.Y >= c.Min.Y && p.Y <= c.Max.Y &&
		p.Z >= c.Min.Z && p.Z <= c.Max.Z
}
