package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sph/config"
)

// EventType identifies a notable change in the fluid.
type EventType string

const (
	EventCompressionSpike   EventType = "compression_spike"
	EventVelocitySaturation EventType = "velocity_saturation"
	EventSettled            EventType = "settled"
	EventThermalEquilibrium EventType = "thermal_equilibrium"
)

// Event is raised by the detector at the end of a stats window.
type Event struct {
	Type        EventType `csv:"type"`
	Frame       int64     `csv:"frame"`
	SimTimeSec  float64   `csv:"sim_time"`
	Description string    `csv:"description"`
}

// Log logs the event at info level.
func (e Event) Log(logger *slog.Logger) {
	logger.Info("event",
		"type", string(e.Type),
		"frame", e.Frame,
		"description", e.Description,
	)
}

// EventDetector watches successive WindowStats for stability problems and
// for the fluid coming to rest.
type EventDetector struct {
	cfg config.EventsConfig

	// Circular buffer of recent windows
	history     []WindowStats
	historyIdx  int
	historyFull bool

	saturated     bool // inside a saturation episode
	settledCount  int  // consecutive slow windows
	thermalSpread bool // temperature has been spread out since the last equilibrium
}

// NewEventDetector creates a detector remembering historySize windows.
func NewEventDetector(historySize int, cfg config.EventsConfig) *EventDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &EventDetector{
		cfg:     cfg,
		history: make([]WindowStats, historySize),
	}
}

// Reset forgets all history and episode state, as if newly created.
func (d *EventDetector) Reset() {
	clear(d.history)
	d.historyIdx = 0
	d.historyFull = false
	d.saturated = false
	d.settledCount = 0
	d.thermalSpread = false
}

// Check analyses the latest window and returns any events it triggers.
func (d *EventDetector) Check(stats WindowStats) []Event {
	var events []Event
	for _, check := range []func(WindowStats) *Event{
		d.checkCompression,
		d.checkSaturation,
		d.checkSettled,
		d.checkThermal,
	} {
		if e := check(stats); e != nil {
			events = append(events, *e)
		}
	}
	d.addToHistory(stats)
	return events
}

func (d *EventDetector) addToHistory(stats WindowStats) {
	d.history[d.historyIdx] = stats
	d.historyIdx = (d.historyIdx + 1) % len(d.history)
	if d.historyIdx == 0 {
		d.historyFull = true
	}
}

func (d *EventDetector) recent() []WindowStats {
	if d.historyFull {
		return d.history
	}
	return d.history[:d.historyIdx]
}

func event(t EventType, stats WindowStats, format string, args ...any) *Event {
	return &Event{
		Type:        t,
		Frame:       stats.WindowEndFrame,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf(format, args...),
	}
}

// checkCompression fires when the worst density error jumps well above its
// rolling average.
func (d *EventDetector) checkCompression(stats WindowStats) *Event {
	history := d.recent()
	if len(history) < 3 || stats.DensityErrMax < d.cfg.CompressionMinError {
		return nil
	}
	var sum float64
	for _, h := range history {
		sum += h.DensityErrMax
	}
	avg := sum / float64(len(history))
	if avg > 0 && stats.DensityErrMax > avg*d.cfg.CompressionFactor {
		return event(EventCompressionSpike, stats,
			"max density error %.3f is %.1fx average (%.3f)", stats.DensityErrMax, stats.DensityErrMax/avg, avg)
	}
	return nil
}

// checkSaturation fires once when the share of clamped particles crosses
// the threshold, and re-arms when it falls back.
func (d *EventDetector) checkSaturation(stats WindowStats) *Event {
	over := stats.SaturatedFraction >= d.cfg.SaturationFraction && stats.SaturatedFraction > 0
	if !over {
		d.saturated = false
		return nil
	}
	if d.saturated {
		return nil
	}
	d.saturated = true
	return event(EventVelocitySaturation, stats,
		"%.0f%% of particles at the velocity clamp", stats.SaturatedFraction*100)
}

// checkSettled fires once after SettleWindows consecutive slow windows.
func (d *EventDetector) checkSettled(stats WindowStats) *Event {
	if stats.Particles == 0 || stats.SpeedMean >= d.cfg.SettleSpeed {
		d.settledCount = 0
		return nil
	}
	d.settledCount++
	if d.settledCount == d.cfg.SettleWindows {
		return event(EventSettled, stats,
			"mean speed below %.3g for %d windows", d.cfg.SettleSpeed, d.cfg.SettleWindows)
	}
	return nil
}

// checkThermal fires when a spread temperature field becomes uniform.
func (d *EventDetector) checkThermal(stats WindowStats) *Event {
	if stats.Particles == 0 {
		return nil
	}
	if stats.TemperatureStd > d.cfg.ThermalStd {
		d.thermalSpread = true
		return nil
	}
	if !d.thermalSpread {
		return nil
	}
	d.thermalSpread = false
	return event(EventThermalEquilibrium, stats,
		"temperature spread %.3g K around %.2f K", stats.TemperatureStd, stats.TemperatureMean)
}
