package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Fluid.SmoothingRadius <= 0 {
		t.Errorf("smoothing radius = %v, want > 0", cfg.Fluid.SmoothingRadius)
	}
	if cfg.Fluid.Damping <= 0 || cfg.Fluid.Damping > 1 {
		t.Errorf("damping = %v, want in (0, 1]", cfg.Fluid.Damping)
	}
	if cfg.Lattice.ParticleCount <= 0 {
		t.Errorf("particle count = %d, want > 0", cfg.Lattice.ParticleCount)
	}
	for axis := 0; axis < 3; axis++ {
		if cfg.Container.Max[axis] <= cfg.Container.Min[axis] {
			t.Errorf("container axis %d is empty: %v..%v", axis, cfg.Container.Min[axis], cfg.Container.Max[axis])
		}
	}
	if got, want := cfg.Derived.LatticeSpacing, cfg.Fluid.SmoothingRadius*0.5; got != want {
		t.Errorf("derived spacing = %v, want %v", got, want)
	}
	if !math.IsInf(cfg.Derived.StreamLife, 1) {
		t.Errorf("derived stream life = %v, want +Inf", cfg.Derived.StreamLife)
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	defaults, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "override.yaml")
	body := "fluid:\n  viscosity: 0.25\nlattice:\n  spacing: 0.03\nstream:\n  life: 2.5\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load override: %v", err)
	}
	if cfg.Fluid.Viscosity != 0.25 {
		t.Errorf("viscosity = %v, want 0.25", cfg.Fluid.Viscosity)
	}
	if cfg.Fluid.Stiffness != defaults.Fluid.Stiffness {
		t.Errorf("stiffness = %v, want default %v", cfg.Fluid.Stiffness, defaults.Fluid.Stiffness)
	}
	if cfg.Derived.LatticeSpacing != 0.03 {
		t.Errorf("derived spacing = %v, want 0.03", cfg.Derived.LatticeSpacing)
	}
	if cfg.Derived.StreamLife != 2.5 {
		t.Errorf("derived stream life = %v, want 2.5", cfg.Derived.StreamLife)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("fluid: [not, a, map"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml")},
		{"malformed yaml", bad},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fluid.SurfaceTension = 0.0728

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Fluid.SurfaceTension != 0.0728 {
		t.Errorf("surface tension = %v, want 0.0728", back.Fluid.SurfaceTension)
	}
}
