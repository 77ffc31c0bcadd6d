package telemetry

import (
	"math"

	"github.com/pthm-cable/sph/components"
)

// saturationRatio is the share of MaxVelocity counted as clamped.
const saturationRatio = 0.99

// Collector counts injection and culling within time windows and produces
// WindowStats from particle snapshots.
type Collector struct {
	windowFrames     int64
	windowStartFrame int64

	injected int
	culled   int

	// Scratch buffers reused across flushes
	density     []float64
	speed       []float64
	temperature []float64
}

// NewCollector creates a collector flushing every windowSec simulated
// seconds at time step dt.
func NewCollector(windowSec, dt float64) *Collector {
	frames := int64(math.Round(windowSec / dt))
	if frames < 1 {
		frames = 1
	}
	return &Collector{windowFrames: frames}
}

// RecordInjected counts particles added by a stream.
func (c *Collector) RecordInjected(n int) {
	c.injected += n
}

// RecordCulled counts particles removed by culling.
func (c *Collector) RecordCulled(n int) {
	c.culled += n
}

// ShouldFlush reports whether the window ending at frame is complete.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// WindowFrames returns the number of steps per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}

// Reset restarts windowing at frame 0, for use after a solver reset.
func (c *Collector) Reset() {
	c.windowStartFrame = 0
	c.injected = 0
	c.culled = 0
}

// FlushInput is the solver state sampled at the end of a window.
type FlushInput struct {
	Frame         int64
	SimTime       float64
	Particles     []components.Particle
	RestDensity   float64
	MaxVelocity   float64
	NeighborPairs int
}

// Flush produces the stats of the finished window and starts the next one.
func (c *Collector) Flush(in FlushInput) WindowStats {
	n := len(in.Particles)
	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   in.Frame,
		SimTimeSec:       in.SimTime,
		Particles:        n,
		Injected:         c.injected,
		Culled:           c.culled,
	}

	c.windowStartFrame = in.Frame
	c.injected = 0
	c.culled = 0

	if n == 0 {
		return stats
	}

	c.density = c.density[:0]
	c.speed = c.speed[:0]
	c.temperature = c.temperature[:0]

	var pressureSum, errSum, errMax, kinetic float64
	saturated := 0
	for i := range in.Particles {
		p := &in.Particles[i]
		speed := p.Speed()

		c.density = append(c.density, p.Density)
		c.speed = append(c.speed, speed)
		c.temperature = append(c.temperature, p.Temperature)

		pressureSum += p.Pressure
		kinetic += 0.5 * p.Mass * speed * speed
		if in.RestDensity > 0 {
			e := math.Abs(p.Density-in.RestDensity) / in.RestDensity
			errSum += e
			errMax = math.Max(errMax, e)
		}
		if in.MaxVelocity > 0 && speed >= saturationRatio*in.MaxVelocity {
			saturated++
		}
	}

	density := Summarize(c.density)
	stats.DensityMean = density.Mean
	stats.DensityStd = density.Std
	stats.DensityP10 = density.P10
	stats.DensityP50 = density.P50
	stats.DensityP90 = density.P90
	stats.DensityErrMean = errSum / float64(n)
	stats.DensityErrMax = errMax
	stats.PressureMean = pressureSum / float64(n)
	stats.NeighborsPerPtl = float64(in.NeighborPairs) / float64(n)

	speed := Summarize(c.speed)
	stats.SpeedMean = speed.Mean
	stats.SpeedMax = speed.Max
	stats.SaturatedFraction = float64(saturated) / float64(n)
	stats.KineticEnergy = kinetic

	temp := Summarize(c.temperature)
	stats.TemperatureMean = temp.Mean
	stats.TemperatureStd = temp.Std
	stats.TemperatureMin = temp.Min
	stats.TemperatureMax = temp.Max

	return stats
}
