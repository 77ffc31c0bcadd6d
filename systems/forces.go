package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
)

// ComputeForces accumulates gravity, pressure, viscosity and (optionally)
// surface tension into each particle's Force. Density and pressure must be
// final for all particles before this runs.
func ComputeForces(particles []components.Particle, nbrs *NeighborList, f FluidParams) {
	for i := range particles {
		pi := &particles[i]
		force := r3.Scale(pi.Mass, f.Gravity)

		for _, n := range nbrs.Of(i) {
			// Coincident particles have no defined direction
			if n.Dist == 0 {
				continue
			}
			pj := &particles[n.Index]

			force = r3.Add(force, pressureForce(pi, pj, n.Delta, f.H))
			force = r3.Add(force, viscosityForce(pi, pj, n.Dist, f))
			if f.SurfaceTension > 0 {
				force = r3.Add(force, cohesionForce(pj, n, f))
			}
		}

		pi.Force = force
	}
}

// pressureForce is the contribution of j to i's pressure force. delta is
// pos_i - pos_j.
func pressureForce(pi, pj *components.Particle, delta r3.Vec, h float64) r3.Vec {
	coeff := -pj.Mass * (pi.Pressure + pj.Pressure) / (2 * pj.Density)
	return r3.Scale(coeff, SpikyGradient(delta, h))
}

// viscosityForce pulls i's velocity towards j's.
func viscosityForce(pi, pj *components.Particle, dist float64, f FluidParams) r3.Vec {
	coeff := f.Viscosity * pj.Mass * ViscosityLaplacian(dist, f.H) / pj.Density
	return r3.Scale(coeff, r3.Sub(pj.Velocity, pi.Velocity))
}

// cohesionForce acts along the unit offset from j to i.
func cohesionForce(pj *components.Particle, n Neighbor, f FluidParams) r3.Vec {
	coeff := f.SurfaceTension * pj.Mass * SurfaceTension(n.Dist, f.H)
	return r3.Scale(coeff/n.Dist, n.Delta)
}
