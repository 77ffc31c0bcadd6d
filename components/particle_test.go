package components

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestContainerValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Container
		wantErr bool
	}{
		{"unit box", Container{Min: r3.Vec{}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}, false},
		{"offset box", Container{Min: r3.Vec{X: -5, Y: -2, Z: -1}, Max: r3.Vec{X: 5, Y: 2, Z: 1}}, false},
		{"flat in y", Container{Min: r3.Vec{}, Max: r3.Vec{X: 1, Y: 0, Z: 1}}, true},
		{"inverted", Container{Min: r3.Vec{X: 1, Y: 1, Z: 1}, Max: r3.Vec{}}, true},
		{"infinite", Container{Min: r3.Vec{}, Max: r3.Vec{X: math.Inf(1), Y: 1, Z: 1}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.c.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidContainer) {
				t.Errorf("expected ErrInvalidContainer, got %v", err)
			}
		})
	}
}

func TestContainerContains(t *testing.T) {
	c := Container{Min: r3.Vec{}, Max: r3.Vec{X: 10, Y: 10, Z: 10}}

	if !c.Contains(r3.Vec{X: 0, Y: 10, Z: 5}) {
		t.Error("bounds should be inclusive")
	}
	if c.Contains(r3.Vec{X: -0.001, Y: 5, Z: 5}) {
		t.Error("point below min should be outside")
	}
	if got := c.Center(); got != (r3.Vec{X: 5, Y: 5, Z: 5}) {
		t.Errorf("Center() = %v, want (5,5,5)", got)
	}
}

func TestParticleExpired(t *testing.T) {
	p := Particle{Age: 2, Life: 2}
	if !p.Expired() {
		t.Error("age == life should be expired")
	}
	p.Life = math.Inf(1)
	if p.Expired() {
		t.Error("infinite life never expires")
	}
}
