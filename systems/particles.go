package systems

import (
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
)

// streamVelocityJitter is the relative velocity spread of emitted particles.
const streamVelocityJitter = 0.1

// ParticleStore owns the particle arena and the ID counter.
// IDs are never reused, even across Reset.
type ParticleStore struct {
	Particles []components.Particle
	capacity  int
	nextID    uint64
}

// NewParticleStore creates an empty store with room for capacity particles.
func NewParticleStore(capacity int) *ParticleStore {
	return &ParticleStore{
		Particles: make([]components.Particle, 0, capacity),
		capacity:  capacity,
		nextID:    1,
	}
}

// Len returns the number of live particles.
func (s *ParticleStore) Len() int {
	return len(s.Particles)
}

// Cap returns the maximum number of particles.
func (s *ParticleStore) Cap() int {
	return s.capacity
}

// At returns a pointer into the arena. It is invalidated by Cull and Reset.
func (s *ParticleStore) At(i int) *components.Particle {
	return &s.Particles[i]
}

// Reset drops every particle and sets a new capacity.
func (s *ParticleStore) Reset(capacity int) {
	s.capacity = capacity
	if cap(s.Particles) < capacity {
		s.Particles = make([]components.Particle, 0, capacity)
	} else {
		s.Particles = s.Particles[:0]
	}
}

// LatticeSpec describes the initial block of particles.
type LatticeSpec struct {
	Count       int
	Spacing     float64
	Mass        float64
	Temperature float64

	// TemperatureNoise adds an opensimplex field of this amplitude to the
	// initial temperature. NoiseScale is the spatial frequency.
	TemperatureNoise float64
	NoiseScale       float64
	Seed             int64
}

// FillLattice appends a cubic block of particles centred in the container.
// The block has ceil(cbrt(count)) particles per side, filled x first, then
// z, then y, and stops at count or capacity. Spacing shrinks if the block
// would not fit. Returns the number of particles added.
func (s *ParticleStore) FillLattice(c components.Container, spec LatticeSpec) int {
	if spec.Count <= 0 {
		return 0
	}
	side := int(math.Ceil(math.Cbrt(float64(spec.Count))))
	for side*side*side < spec.Count {
		side++
	}

	spacing := spec.Spacing
	ext := c.Extent()
	if maxSpacing := math.Min(ext.X, math.Min(ext.Y, ext.Z)) / float64(side); spacing <= 0 || spacing > maxSpacing {
		spacing = maxSpacing
	}

	span := spacing * float64(side-1)
	origin := r3.Sub(c.Center(), r3.Vec{X: span / 2, Y: span / 2, Z: span / 2})

	var noise opensimplex.Noise
	if spec.TemperatureNoise != 0 {
		noise = opensimplex.New(spec.Seed)
	}

	added := 0
	for y := 0; y < side; y++ {
		for z := 0; z < side; z++ {
			for x := 0; x < side; x++ {
				if added == spec.Count || len(s.Particles) >= s.capacity {
					return added
				}
				pos := r3.Add(origin, r3.Vec{
					X: float64(x) * spacing,
					Y: float64(y) * spacing,
					Z: float64(z) * spacing,
				})
				temp := spec.Temperature
				if noise != nil {
					temp += spec.TemperatureNoise * noise.Eval3(pos.X*spec.NoiseScale, pos.Y*spec.NoiseScale, pos.Z*spec.NoiseScale)
				}
				s.append(pos, r3.Vec{}, spec.Mass, temp, math.Inf(1))
				added++
			}
		}
	}
	return added
}

// EmitSpec describes a burst of particles injected around a source point.
type EmitSpec struct {
	Origin      r3.Vec
	Velocity    r3.Vec
	Count       int
	Mass        float64
	Temperature float64
	Jitter      float64 // positional spread per axis
	Life        float64
}

// Emit appends jittered particles around the source. Injection past
// capacity is silently dropped. Returns the number of particles added.
func (s *ParticleStore) Emit(spec EmitSpec, rng *rand.Rand) int {
	added := 0
	for i := 0; i < spec.Count; i++ {
		if len(s.Particles) >= s.capacity {
			break
		}
		pos := r3.Add(spec.Origin, r3.Vec{
			X: (rng.Float64()*2 - 1) * spec.Jitter,
			Y: (rng.Float64()*2 - 1) * spec.Jitter,
			Z: (rng.Float64()*2 - 1) * spec.Jitter,
		})
		vel := r3.Vec{
			X: spec.Velocity.X * (1 + (rng.Float64()*2-1)*streamVelocityJitter),
			Y: spec.Velocity.Y * (1 + (rng.Float64()*2-1)*streamVelocityJitter),
			Z: spec.Velocity.Z * (1 + (rng.Float64()*2-1)*streamVelocityJitter),
		}
		s.append(pos, vel, spec.Mass, spec.Temperature, spec.Life)
		added++
	}
	return added
}

// Cull removes particles whose age has reached their life, keeping the
// order of the survivors. Returns the number removed.
func (s *ParticleStore) Cull() int {
	alive := 0
	for i := range s.Particles {
		if s.Particles[i].Expired() {
			continue
		}
		s.Particles[alive] = s.Particles[i]
		alive++
	}
	removed := len(s.Particles) - alive
	s.Particles = s.Particles[:alive]
	return removed
}

func (s *ParticleStore) append(pos, vel r3.Vec, mass, temperature, life float64) {
	s.Particles = append(s.Particles, components.Particle{
		ID:          s.nextID,
		Position:    pos,
		Velocity:    vel,
		Mass:        mass,
		Temperature: temperature,
		Life:        life,
	})
	s.nextID++
}
