// Package camera provides an orbit camera for viewing the fluid container.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Orbit looks at Target from a point on a sphere of radius Distance.
// Yaw rotates about the vertical (Y) axis, Pitch tilts above the horizon.
type Orbit struct {
	Target   r3.Vec
	Yaw      float64 // radians
	Pitch    float64 // radians
	Distance float64

	MinDistance, MaxDistance float64
	MinPitch, MaxPitch       float64

	home pose
}

// pose is the camera state restored by Reset.
type pose struct {
	Target     r3.Vec
	Yaw, Pitch float64
	Distance   float64
}

const (
	defaultYaw   = math.Pi / 4
	defaultPitch = math.Pi / 6
	pitchLimit   = math.Pi/2 - 0.01
)

// New creates a camera framing the box [min, max].
func New(min, max r3.Vec) *Orbit {
	c := &Orbit{
		MinPitch: -pitchLimit,
		MaxPitch: pitchLimit,
	}
	c.Frame(min, max)
	return c
}

// Frame aims at the centre of [min, max] from far enough away to see all of
// it, and makes that the home pose.
func (c *Orbit) Frame(min, max r3.Vec) {
	diag := r3.Norm(r3.Sub(max, min))
	c.Target = r3.Scale(0.5, r3.Add(min, max))
	c.Yaw = defaultYaw
	c.Pitch = defaultPitch
	c.Distance = 1.5 * diag
	c.MinDistance = 0.1 * diag
	c.MaxDistance = 10 * diag
	c.home = pose{Target: c.Target, Yaw: c.Yaw, Pitch: c.Pitch, Distance: c.Distance}
}

// Eye returns the camera position.
func (c *Orbit) Eye() r3.Vec {
	return r3.Add(c.Target, r3.Scale(c.Distance, c.offsetDir()))
}

// Forward returns the unit view direction.
func (c *Orbit) Forward() r3.Vec {
	return r3.Scale(-1, c.offsetDir())
}

// Right returns the unit vector to the right of the view, in the horizontal plane.
func (c *Orbit) Right() r3.Vec {
	return r3.Vec{X: math.Cos(c.Yaw), Z: -math.Sin(c.Yaw)}
}

// Up returns the unit vector completing the view basis.
func (c *Orbit) Up() r3.Vec {
	return r3.Cross(c.Right(), c.Forward())
}

func (c *Orbit) offsetDir() r3.Vec {
	cp := math.Cos(c.Pitch)
	return r3.Vec{
		X: cp * math.Sin(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: cp * math.Cos(c.Yaw),
	}
}

// Rotate turns the camera around the target. Pitch is clamped short of the
// poles.
func (c *Orbit) Rotate(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// ZoomBy scales the distance, clamped to the allowed range.
func (c *Orbit) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Pan moves the target in the view plane by fractions of the distance.
func (c *Orbit) Pan(dx, dy float64) {
	move := r3.Add(r3.Scale(dx*c.Distance, c.Right()), r3.Scale(dy*c.Distance, c.Up()))
	c.Target = r3.Add(c.Target, move)
}

// Reset restores the pose set by the last Frame.
func (c *Orbit) Reset() {
	c.Target = c.home.Target
	c.Yaw = c.home.Yaw
	c.Pitch = c.home.Pitch
	c.Distance = c.home.Distance
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
