package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestKernelsCompactSupport(t *testing.T) {
	for _, h := range []float64{0.1, 1, 2.5} {
		for _, scale := range []float64{1, 1.0001, 1.5, 10} {
			r := h * scale
			if got := Poly6(r, h); got != 0 {
				t.Errorf("Poly6(%v, %v) = %v, want 0", r, h, got)
			}
			if got := ViscosityLaplacian(r, h); got != 0 {
				t.Errorf("ViscosityLaplacian(%v, %v) = %v, want 0", r, h, got)
			}
			if got := SurfaceTension(r, h); got != 0 {
				t.Errorf("SurfaceTension(%v, %v) = %v, want 0", r, h, got)
			}
			dirs := []r3.Vec{{X: 1}, {Y: -1}, {Z: 1}}
			if scale > 1 {
				// Off-axis unit vectors only away from the boundary; their norm is not exact.
				dirs = append(dirs, r3.Unit(r3.Vec{X: 1, Y: 2, Z: -3}))
			}
			for _, dir := range dirs {
				if got := SpikyGradient(r3.Scale(r, dir), h); got != (r3.Vec{}) {
					t.Errorf("SpikyGradient(|r|=%v, h=%v) = %v, want zero", r, h, got)
				}
			}
		}
	}
}

func TestPoly6SelfTerm(t *testing.T) {
	h := 1.0
	want := 315.0 / (64.0 * math.Pi)
	if got := Poly6(0, h); math.Abs(got-want) > 1e-12 {
		t.Errorf("Poly6(0, 1) = %v, want %v", got, want)
	}
	// Monotonically decreasing inside the support
	prev := Poly6(0, h)
	for r := 0.1; r < h; r += 0.1 {
		v := Poly6(r, h)
		if v > prev || v <= 0 {
			t.Fatalf("Poly6 not decreasing/positive at r=%v: %v (prev %v)", r, v, prev)
		}
		prev = v
	}
}

func TestSpikyGradientAntisymmetric(t *testing.T) {
	h := 1.2
	rv := r3.Vec{X: 0.3, Y: -0.2, Z: 0.5}
	a := SpikyGradient(rv, h)
	b := SpikyGradient(r3.Scale(-1, rv), h)
	if sum := r3.Norm(r3.Add(a, b)); sum > 1e-12 {
		t.Errorf("gradient not antisymmetric, |a+b| = %v", sum)
	}
	// Points from the particle towards the neighbour (against rv).
	if r3.Dot(a, rv) >= 0 {
		t.Errorf("expected gradient opposite to offset, got %v", a)
	}
	if got := SpikyGradient(r3.Vec{}, h); got != (r3.Vec{}) {
		t.Errorf("zero offset should give zero gradient, got %v", got)
	}
}

func TestSurfaceTensionContinuousAtHalf(t *testing.T) {
	h := 0.8
	eps := 1e-9
	below := SurfaceTension(h/2-eps, h)
	above := SurfaceTension(h/2+eps, h)
	if math.Abs(below-above) > 1e-6 {
		t.Errorf("discontinuity at h/2: %v vs %v", below, above)
	}
	if SurfaceTension(0, h) >= 0 {
		t.Error("cohesion kernel should be repulsive (negative) at the origin")
	}
}

func TestViscosityLaplacianFinite(t *testing.T) {
	h := 0.5
	for r := 0.0; r < h; r += 0.05 {
		v := ViscosityLaplacian(r, h)
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			t.Errorf("ViscosityLaplacian(%v) = %v", r, v)
		}
	}
}
