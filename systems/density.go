package systems

import (
	"math"

	"github.com/pthm-cable/sph/components"
)

// ComputeDensity evaluates density and pressure for every particle.
// Reads positions and masses only, so no particle observes another's
// partially updated density.
func ComputeDensity(particles []components.Particle, nbrs *NeighborList, f FluidParams) {
	self := Poly6(0, f.H)
	floor := f.DensityFloor()

	for i := range particles {
		p := &particles[i]
		density := p.Mass * self
		for _, n := range nbrs.Of(i) {
			density += particles[n.Index].Mass * Poly6(n.Dist, f.H)
		}
		p.Density = math.Max(density, floor)
		p.Pressure = f.Pressure(p.Density)
	}
}
