package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-9

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < eps
}

func TestNewFramesBox(t *testing.T) {
	cam := New(r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})

	if !near(cam.Target, r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("target = %v, want box centre", cam.Target)
	}
	diag := math.Sqrt(12)
	if got := r3.Norm(r3.Sub(cam.Eye(), cam.Target)); math.Abs(got-1.5*diag) > eps {
		t.Errorf("eye distance = %v, want %v", got, 1.5*diag)
	}
	if cam.Eye().Y <= cam.Target.Y {
		t.Error("default pose should look down on the box")
	}
}

func TestBasisIsOrthonormal(t *testing.T) {
	cam := New(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	poses := []struct{ yaw, pitch float64 }{
		{0, 0}, {1, 0.3}, {-2, -1.2}, {3, 1.5},
	}
	for _, p := range poses {
		cam.Yaw, cam.Pitch = p.yaw, p.pitch
		f, r, u := cam.Forward(), cam.Right(), cam.Up()
		for name, v := range map[string]r3.Vec{"forward": f, "right": r, "up": u} {
			if math.Abs(r3.Norm(v)-1) > eps {
				t.Errorf("yaw=%v pitch=%v: |%s| = %v", p.yaw, p.pitch, name, r3.Norm(v))
			}
		}
		if math.Abs(r3.Dot(f, r)) > eps || math.Abs(r3.Dot(f, u)) > eps || math.Abs(r3.Dot(r, u)) > eps {
			t.Errorf("yaw=%v pitch=%v: basis not orthogonal", p.yaw, p.pitch)
		}
		// Forward points from the eye to the target
		toTarget := r3.Unit(r3.Sub(cam.Target, cam.Eye()))
		if !near(f, toTarget) {
			t.Errorf("forward = %v, want %v", f, toTarget)
		}
	}
}

func TestRotateClampsPitch(t *testing.T) {
	cam := New(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	cam.Rotate(0, 10)
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("pitch = %v, want clamp %v", cam.Pitch, cam.MaxPitch)
	}
	cam.Rotate(0, -20)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("pitch = %v, want clamp %v", cam.Pitch, cam.MinPitch)
	}
}

func TestZoomClamps(t *testing.T) {
	cam := New(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	tests := []struct {
		name   string
		factor float64
		want   float64
	}{
		{"in past limit", 1e-6, cam.MinDistance},
		{"out past limit", 1e6, cam.MaxDistance},
		{"ignored non-positive", -1, cam.MaxDistance},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam.ZoomBy(tc.factor)
			if cam.Distance != tc.want {
				t.Errorf("distance = %v, want %v", cam.Distance, tc.want)
			}
		})
	}
}

func TestPanAndReset(t *testing.T) {
	cam := New(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	home := cam.Target

	cam.Pan(0.1, 0)
	moved := r3.Sub(cam.Target, home)
	if math.Abs(r3.Dot(moved, cam.Forward())) > eps {
		t.Errorf("pan moved along the view direction: %v", moved)
	}
	if math.Abs(r3.Norm(moved)-0.1*cam.Distance) > eps {
		t.Errorf("pan distance = %v, want %v", r3.Norm(moved), 0.1*cam.Distance)
	}

	cam.Rotate(1, 0.2)
	cam.ZoomBy(2)
	cam.Reset()
	if !near(cam.Target, home) || cam.Yaw != defaultYaw || cam.Pitch != defaultPitch {
		t.Errorf("reset pose = %+v", cam)
	}
}
