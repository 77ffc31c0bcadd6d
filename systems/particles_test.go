package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
)

var unitBox = components.Container{Max: r3.Vec{X: 10, Y: 10, Z: 10}}

func TestFillLattice(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		count    int
		want     int
	}{
		{"perfect cube", 64, 27, 27},
		{"partial cube", 64, 10, 10},
		{"capacity bound", 5, 27, 5},
		{"empty", 10, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewParticleStore(tc.capacity)
			got := s.FillLattice(unitBox, LatticeSpec{Count: tc.count, Spacing: 0.5, Mass: 1})
			if got != tc.want || s.Len() != tc.want {
				t.Fatalf("FillLattice added %d (len %d), want %d", got, s.Len(), tc.want)
			}
			for i, p := range s.Particles {
				if !unitBox.Contains(p.Position) {
					t.Errorf("particle %d at %v outside container", i, p.Position)
				}
				if !math.IsInf(p.Life, 1) {
					t.Errorf("particle %d life = %v, want +Inf", i, p.Life)
				}
			}
		})
	}
}

func TestFillLatticeOrderAndCentring(t *testing.T) {
	s := NewParticleStore(8)
	s.FillLattice(unitBox, LatticeSpec{Count: 8, Spacing: 0.8, Mass: 1})

	want := []r3.Vec{
		{X: 4.6, Y: 4.6, Z: 4.6},
		{X: 5.4, Y: 4.6, Z: 4.6},
		{X: 4.6, Y: 4.6, Z: 5.4},
		{X: 5.4, Y: 4.6, Z: 5.4},
		{X: 4.6, Y: 5.4, Z: 4.6},
	}
	for i, w := range want {
		if r3.Norm(r3.Sub(s.Particles[i].Position, w)) > 1e-9 {
			t.Errorf("particle %d at %v, want %v", i, s.Particles[i].Position, w)
		}
	}
}

func TestFillLatticeShrinksSpacing(t *testing.T) {
	small := components.Container{Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	s := NewParticleStore(27)
	s.FillLattice(small, LatticeSpec{Count: 27, Spacing: 5, Mass: 1})

	for i, p := range s.Particles {
		if !small.Contains(p.Position) {
			t.Errorf("particle %d at %v outside container", i, p.Position)
		}
	}
}

func TestFillLatticeTemperatureNoise(t *testing.T) {
	s := NewParticleStore(27)
	s.FillLattice(unitBox, LatticeSpec{
		Count: 27, Spacing: 1, Mass: 1, Temperature: 300,
		TemperatureNoise: 5, NoiseScale: 0.7, Seed: 42,
	})

	varied := false
	for _, p := range s.Particles {
		if math.Abs(p.Temperature-300) > 5+1e-9 {
			t.Errorf("temperature %v outside noise amplitude", p.Temperature)
		}
		if p.Temperature != 300 {
			varied = true
		}
	}
	if !varied {
		t.Error("noise produced a uniform temperature field")
	}
}

func TestEmitCapacityAndUniqueIDs(t *testing.T) {
	s := NewParticleStore(10)
	s.FillLattice(unitBox, LatticeSpec{Count: 4, Spacing: 1, Mass: 1})

	rng := rand.New(rand.NewSource(1))
	spec := EmitSpec{
		Origin:   r3.Vec{X: 5, Y: 8, Z: 5},
		Velocity: r3.Vec{Y: -2},
		Count:    20,
		Mass:     1,
		Jitter:   0.1,
		Life:     3,
	}
	if got := s.Emit(spec, rng); got != 6 {
		t.Fatalf("Emit added %d, want 6", got)
	}
	if got := s.Emit(spec, rng); got != 0 {
		t.Fatalf("Emit into full store added %d, want 0", got)
	}

	seen := make(map[uint64]bool)
	for _, p := range s.Particles {
		if seen[p.ID] {
			t.Fatalf("duplicate ID %d", p.ID)
		}
		seen[p.ID] = true
	}

	for _, p := range s.Particles[4:] {
		if math.Abs(p.Position.Y-8) > 0.1 {
			t.Errorf("emitted y = %v, want within jitter of 8", p.Position.Y)
		}
		if p.Velocity.Y > -1.8 || p.Velocity.Y < -2.2 {
			t.Errorf("emitted vy = %v, want within 10%% of -2", p.Velocity.Y)
		}
	}
}

func TestResetKeepsIDCounter(t *testing.T) {
	s := NewParticleStore(4)
	s.FillLattice(unitBox, LatticeSpec{Count: 4, Spacing: 1, Mass: 1})
	last := s.Particles[3].ID

	s.Reset(8)
	if s.Len() != 0 || s.Cap() != 8 {
		t.Fatalf("after reset len=%d cap=%d", s.Len(), s.Cap())
	}
	s.FillLattice(unitBox, LatticeSpec{Count: 1, Spacing: 1, Mass: 1})
	if s.Particles[0].ID <= last {
		t.Errorf("ID %d reused after reset (last was %d)", s.Particles[0].ID, last)
	}
}

func TestCullKeepsOrder(t *testing.T) {
	s := NewParticleStore(5)
	for i := 0; i < 5; i++ {
		s.append(r3.Vec{X: float64(i)}, r3.Vec{}, 1, 0, 1)
	}
	s.Particles[1].Age = 1
	s.Particles[3].Age = 2

	if removed := s.Cull(); removed != 2 {
		t.Fatalf("Cull removed %d, want 2", removed)
	}
	wantX := []float64{0, 2, 4}
	for i, x := range wantX {
		if s.Particles[i].Position.X != x {
			t.Errorf("survivor %d x = %v, want %v", i, s.Particles[i].Position.X, x)
		}
	}
}
