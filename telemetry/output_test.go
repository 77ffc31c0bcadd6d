package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager is a no-op
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if _, err := om.WriteFrame(1, nil); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := int64(1); i <= 3; i++ {
		if err := om.WriteStats(WindowStats{WindowEndFrame: i * 100, Particles: 8}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{StepsPerSecond: 120}, 300); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvent(Event{Type: EventSettled, Frame: 300, Description: "at rest"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("stats.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "frame,sim_time,particles") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Contains(lines[0], "WindowStartFrame") {
		t.Error("ignored field exported")
	}

	for _, name := range []string{"perf.csv", "events.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestFrameCSVRoundTrip(t *testing.T) {
	particles := []components.Particle{
		{ID: 7, Position: r3.Vec{X: 0.1, Y: 0.2, Z: 0.3}, Density: 998.5, Temperature: 300},
		{ID: 9, Position: r3.Vec{X: 0.4, Y: 0.5, Z: 0.6}, Velocity: r3.Vec{Y: -1}, Pressure: -3},
	}

	path, err := WriteFrameCSV(t.TempDir(), 12, particles)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "frame_000012.csv" {
		t.Errorf("path = %s", path)
	}

	rows, err := ReadFrameCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("read %d rows, want 2", len(rows))
	}
	if rows[0].ID != 7 || rows[0].Density != 998.5 || rows[1].VY != -1 || rows[1].Pressure != -3 {
		t.Errorf("rows = %+v", rows)
	}
}
