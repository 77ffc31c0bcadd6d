// Package renderer draws the fluid in 3D with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/components"
)

// ParticleStyle selects how particles are drawn.
type ParticleStyle int

const (
	StyleSpheres ParticleStyle = iota
	StylePoints
)

// ParticleRenderer renders fluid particles and their container.
type ParticleRenderer struct {
	Radius float32
	Style  ParticleStyle

	ContainerColor rl.Color
	FovY           float32
}

// NewParticleRenderer creates a renderer drawing particles of the given
// radius, usually a fraction of the smoothing radius.
func NewParticleRenderer(radius float64) *ParticleRenderer {
	return &ParticleRenderer{
		Radius:         float32(radius),
		ContainerColor: rl.Color{R: 120, G: 130, B: 140, A: 255},
		FovY:           45,
	}
}

// ToggleStyle switches between spheres and points.
func (r *ParticleRenderer) ToggleStyle() {
	if r.Style == StyleSpheres {
		r.Style = StylePoints
	} else {
		r.Style = StyleSpheres
	}
}

// Camera converts the orbit camera into a raylib perspective camera.
func (r *ParticleRenderer) Camera(o *camera.Orbit) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(o.Eye()),
		Target:     vec3(o.Target),
		Up:         vec3(o.Up()),
		Fovy:       r.FovY,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the container outline and every particle in its stored
// colour. Must be called between BeginDrawing and EndDrawing.
func (r *ParticleRenderer) Draw(o *camera.Orbit, box components.Container, particles []components.Particle) {
	rl.BeginMode3D(r.Camera(o))
	defer rl.EndMode3D()

	size := r3.Sub(box.Max, box.Min)
	center := r3.Scale(0.5, r3.Add(box.Min, box.Max))
	rl.DrawCubeWires(vec3(center), float32(size.X), float32(size.Y), float32(size.Z), r.ContainerColor)

	for i := range particles {
		p := &particles[i]
		red, green, blue := p.Color.RGB255()
		color := rl.Color{R: red, G: green, B: blue, A: 255}
		if r.Style == StylePoints {
			rl.DrawPoint3D(vec3(p.Position), color)
			continue
		}
		rl.DrawSphereEx(vec3(p.Position), r.Radius, 4, 6, color)
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
