package systems

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
)

// Boundary response constants.
const (
	Restitution = 0.6 // fraction of normal velocity kept (and reversed)
	Friction    = 0.1 // fraction of tangential velocity lost per contact
)

// Integrate advances every particle by one time step and resolves
// collisions with the container. Forces must be final for all particles.
func Integrate(particles []components.Particle, box components.Container, f FluidParams) {
	dt := f.TimeStep
	for i := range particles {
		p := &particles[i]

		p.Acceleration = r3.Scale(1/p.Mass, p.Force)
		p.Velocity = r3.Add(p.Velocity, r3.Scale(dt, p.Acceleration))

		if speed := r3.Norm(p.Velocity); speed > f.MaxVelocity && speed > 0 {
			p.Velocity = r3.Scale(f.MaxVelocity/speed, p.Velocity)
		}

		// Displacement uses the undamped velocity
		p.Position = r3.Add(p.Position, r3.Scale(dt, p.Velocity))
		p.Velocity = r3.Scale(f.Damping, p.Velocity)
		p.Age += dt

		ResolveBoundary(p, box)
		p.Color = ParticleColor(p.Speed(), p.Pressure, f)
	}
}

// ResolveBoundary clamps p into the box axis by axis. A clamped axis has
// its velocity reflected with Restitution; the other two components lose
// Friction. In-bounds axes are untouched.
func ResolveBoundary(p *components.Particle, box components.Container) {
	pos := [3]*float64{&p.Position.X, &p.Position.Y, &p.Position.Z}
	vel := [3]*float64{&p.Velocity.X, &p.Velocity.Y, &p.Velocity.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		switch {
		case *pos[axis] < lo[axis]:
			*pos[axis] = lo[axis]
		case *pos[axis] > hi[axis]:
			*pos[axis] = hi[axis]
		default:
			continue
		}
		*vel[axis] *= -Restitution
		for other := 0; other < 3; other++ {
			if other != axis {
				*vel[other] *= 1 - Friction
			}
		}
	}
}

// ParticleColor maps speed to hue (blue at rest, red at MaxVelocity) and
// pressure to brightness.
func ParticleColor(speed, pressure float64, f FluidParams) colorful.Color {
	var t float64
	if f.MaxVelocity > 0 {
		t = clamp01(speed / f.MaxVelocity)
	}
	var pt float64
	if f.Stiffness > 0 {
		pt = clamp01(0.5 + 0.5*pressure/f.Stiffness)
	}
	return colorful.Hsv(220*(1-t), 0.85, 0.55+0.45*pt)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
