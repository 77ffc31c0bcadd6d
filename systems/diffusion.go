package systems

import "github.com/pthm-cable/sph/components"

// ScalarField reads and writes one scalar quantity carried by particles.
type ScalarField struct {
	Name string
	Get  func(p *components.Particle) float64
	Set  func(p *components.Particle, v float64)
}

// TemperatureField is the particle temperature.
var TemperatureField = ScalarField{
	Name: "temperature",
	Get:  func(p *components.Particle) float64 { return p.Temperature },
	Set:  func(p *components.Particle, v float64) { p.Temperature = v },
}

// ScalarDiffusion spreads a scalar field between neighbours:
//
//	v_i += dt * sum_j coeff * m_j * (v_j - v_i) * K(r_ij, h) / rho_j
//
// All deltas are computed from the pre-step values before any are applied.
type ScalarDiffusion struct {
	Field  ScalarField
	Kernel ScalarKernel
	deltas []float64
}

// NewThermalDiffusion diffuses temperature with the viscosity Laplacian.
func NewThermalDiffusion() *ScalarDiffusion {
	return &ScalarDiffusion{Field: TemperatureField, Kernel: ViscosityLaplacian}
}

// Apply runs one diffusion pass with the given coefficient.
func (d *ScalarDiffusion) Apply(particles []components.Particle, nbrs *NeighborList, coeff, h, dt float64) {
	if cap(d.deltas) < len(particles) {
		d.deltas = make([]float64, len(particles))
	}
	d.deltas = d.deltas[:len(particles)]

	for i := range particles {
		pi := &particles[i]
		vi := d.Field.Get(pi)
		var sum float64
		for _, n := range nbrs.Of(i) {
			pj := &particles[n.Index]
			sum += coeff * pj.Mass * (d.Field.Get(pj) - vi) * d.Kernel(n.Dist, h) / pj.Density
		}
		d.deltas[i] = dt * sum
	}

	for i := range particles {
		p := &particles[i]
		d.Field.Set(p, d.Field.Get(p)+d.deltas[i])
	}
}
