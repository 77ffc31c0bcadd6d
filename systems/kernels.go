package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ScalarKernel is a radial smoothing kernel W(r, h).
type ScalarKernel func(r, h float64) float64

// Poly6 is the density kernel. Its maximum, Poly6(0, h), is the self term.
func Poly6(r, h float64) float64 {
	if r >= h || r < 0 {
		return 0
	}
	h2 := h * h
	d := h2 - r*r
	return 315.0 / (64.0 * math.Pi * math.Pow(h, 9)) * d * d * d
}

// SpikyGradient returns the gradient of the spiky kernel for offset rv.
// It is antisymmetric: SpikyGradient(-rv) == -SpikyGradient(rv).
func SpikyGradient(rv r3.Vec, h float64) r3.Vec {
	r := r3.Norm(rv)
	if r >= h || r == 0 {
		return r3.Vec{}
	}
	d := h - r
	coeff := -45.0 / (math.Pi * math.Pow(h, 6)) * d * d / r
	return r3.Scale(coeff, rv)
}

// ViscosityLaplacian is the Laplacian of the viscosity kernel. It also
// drives scalar diffusion (temperature).
func ViscosityLaplacian(r, h float64) float64 {
	if r >= h || r < 0 {
		return 0
	}
	return 45.0 / (math.Pi * math.Pow(h, 6)) * (h - r)
}

// SurfaceTension is the cohesion kernel: a piecewise cubic that is negative
// near the origin and continuous at h/2.
func SurfaceTension(r, h float64) float64 {
	if r >= h || r < 0 {
		return 0
	}
	d := h - r
	v := d * d * d * r * r * r
	if 2*r <= h {
		h3 := h * h * h
		v = 2*v - h3*h3/64.0
	}
	return 32.0 / (math.Pi * math.Pow(h, 9)) * v
}
