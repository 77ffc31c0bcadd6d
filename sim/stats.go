package sim

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sph/components"
)

// Statistics is an aggregate view of the particles at one instant.
type Statistics struct {
	ParticleCount      int
	AverageDensity     float64
	AveragePressure    float64
	AverageSpeed       float64
	AverageTemperature float64
	SimulationTime     float64
	FrameCount         int64
}

// Statistics computes averages over the current particles. An empty solver
// reports zero averages.
func (s *Solver) Statistics() Statistics {
	particles := s.store.Particles
	st := Statistics{
		ParticleCount:  len(particles),
		SimulationTime: s.time,
		FrameCount:     s.frame,
	}
	if len(particles) == 0 {
		return st
	}

	st.AverageDensity = s.mean(particles, func(p *components.Particle) float64 { return p.Density })
	st.AveragePressure = s.mean(particles, func(p *components.Particle) float64 { return p.Pressure })
	st.AverageSpeed = s.mean(particles, (*components.Particle).Speed)
	st.AverageTemperature = s.mean(particles, func(p *components.Particle) float64 { return p.Temperature })
	return st
}

// mean averages get over particles, shifted by the first value so that a
// uniform field averages to exactly that value.
func (s *Solver) mean(particles []components.Particle, get func(*components.Particle) float64) float64 {
	if cap(s.scratch) < len(particles) {
		s.scratch = make([]float64, len(particles))
	}
	xs := s.scratch[:len(particles)]

	shift := get(&particles[0])
	for i := range particles {
		xs[i] = get(&particles[i]) - shift
	}
	return shift + stat.Mean(xs, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (st Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("particles", st.ParticleCount),
		slog.Float64("avg_density", st.AverageDensity),
		slog.Float64("avg_pressure", st.AveragePressure),
		slog.Float64("avg_speed", st.AverageSpeed),
		slog.Float64("avg_temperature", st.AverageTemperature),
		slog.Float64("time", st.SimulationTime),
		slog.Int64("frame", st.FrameCount),
	)
}
