package telemetry

import (
	"testing"

	"github.com/pthm-cable/sph/config"
)

var testEventsConfig = config.EventsConfig{
	CompressionFactor:   2,
	CompressionMinError: 0.05,
	SaturationFraction:  0.05,
	SettleSpeed:         0.01,
	SettleWindows:       3,
	ThermalStd:          0.05,
}

func hasEvent(events []Event, t EventType) bool {
	for _, e := range events {
		if e.Type == t {
			return true
		}
	}
	return false
}

func TestEventDetector_CompressionSpike(t *testing.T) {
	d := NewEventDetector(10, testEventsConfig)
	for i := 0; i < 5; i++ {
		d.Check(WindowStats{WindowEndFrame: int64(i * 100), Particles: 100, SpeedMean: 1, DensityErrMax: 0.04})
	}

	events := d.Check(WindowStats{WindowEndFrame: 500, Particles: 100, SpeedMean: 1, DensityErrMax: 0.2})
	if !hasEvent(events, EventCompressionSpike) {
		t.Errorf("expected %s, got %v", EventCompressionSpike, events)
	}
}

func TestEventDetector_CompressionNeedsHistory(t *testing.T) {
	d := NewEventDetector(10, testEventsConfig)
	d.Check(WindowStats{Particles: 100, SpeedMean: 1, DensityErrMax: 0.01})
	events := d.Check(WindowStats{Particles: 100, SpeedMean: 1, DensityErrMax: 0.5})
	if hasEvent(events, EventCompressionSpike) {
		t.Error("spike reported with fewer than three windows of history")
	}
}

func TestEventDetector_SaturationOncePerEpisode(t *testing.T) {
	d := NewEventDetector(5, testEventsConfig)
	fractions := []float64{0, 0.1, 0.2, 0.01, 0.3}
	want := []bool{false, true, false, false, true}

	for i, f := range fractions {
		events := d.Check(WindowStats{Particles: 10, SpeedMean: 1, SaturatedFraction: f})
		if got := hasEvent(events, EventVelocitySaturation); got != want[i] {
			t.Errorf("window %d (fraction %v): saturation event = %v, want %v", i, f, got, want[i])
		}
	}
}

func TestEventDetector_Settled(t *testing.T) {
	d := NewEventDetector(5, testEventsConfig)
	speeds := []float64{0.5, 0.001, 0.002, 0.001, 0.001, 0.3, 0.001}

	count := 0
	for _, s := range speeds {
		if hasEvent(d.Check(WindowStats{Particles: 10, SpeedMean: s}), EventSettled) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("settled events = %d, want 1", count)
	}
}

func TestEventDetector_ResetClearsState(t *testing.T) {
	d := NewEventDetector(5, testEventsConfig)
	slow := WindowStats{Particles: 10, SpeedMean: 0.001}
	clamped := WindowStats{Particles: 10, SpeedMean: 0.001, SaturatedFraction: 0.5}

	// One slow window short of settling, inside a saturation episode
	d.Check(slow)
	d.Check(clamped)
	d.Reset()

	if len(d.recent()) != 0 {
		t.Errorf("history after reset = %d windows, want 0", len(d.recent()))
	}
	events := d.Check(clamped)
	if !hasEvent(events, EventVelocitySaturation) {
		t.Error("saturation episode survived reset")
	}
	if hasEvent(events, EventSettled) {
		t.Fatal("settled on the first window after reset")
	}
	if hasEvent(d.Check(slow), EventSettled) {
		t.Fatal("settled on the second window after reset")
	}
	if !hasEvent(d.Check(slow), EventSettled) {
		t.Error("expected settled on the third slow window after reset")
	}
}

func TestEventDetector_ThermalEquilibrium(t *testing.T) {
	d := NewEventDetector(5, testEventsConfig)

	// Uniform from the start is not an equilibrium event
	if hasEvent(d.Check(WindowStats{Particles: 10, SpeedMean: 1, TemperatureStd: 0}), EventThermalEquilibrium) {
		t.Error("uniform field reported as reaching equilibrium")
	}
	d.Check(WindowStats{Particles: 10, SpeedMean: 1, TemperatureStd: 3})
	d.Check(WindowStats{Particles: 10, SpeedMean: 1, TemperatureStd: 0.5})
	if !hasEvent(d.Check(WindowStats{Particles: 10, SpeedMean: 1, TemperatureStd: 0.01}), EventThermalEquilibrium) {
		t.Error("expected thermal equilibrium event")
	}
	if hasEvent(d.Check(WindowStats{Particles: 10, SpeedMean: 1, TemperatureStd: 0.01}), EventThermalEquilibrium) {
		t.Error("equilibrium reported twice")
	}
}
