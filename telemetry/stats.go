package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated fluid statistics for one stats window.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"frame"`
	SimTimeSec       float64 `csv:"sim_time"`

	Particles int `csv:"particles"`
	Injected  int `csv:"injected"`
	Culled    int `csv:"culled"`

	// Density distribution and relative error against rest density
	DensityMean     float64 `csv:"density_mean"`
	DensityStd      float64 `csv:"density_std"`
	DensityP10      float64 `csv:"density_p10"`
	DensityP50      float64 `csv:"density_p50"`
	DensityP90      float64 `csv:"density_p90"`
	DensityErrMean  float64 `csv:"density_err_mean"`
	DensityErrMax   float64 `csv:"density_err_max"`
	PressureMean    float64 `csv:"pressure_mean"`
	NeighborsPerPtl float64 `csv:"neighbors_per_particle"`

	SpeedMean         float64 `csv:"speed_mean"`
	SpeedMax          float64 `csv:"speed_max"`
	SaturatedFraction float64 `csv:"saturated_fraction"` // share of particles at the velocity clamp
	KineticEnergy     float64 `csv:"kinetic_energy"`

	TemperatureMean float64 `csv:"temperature_mean"`
	TemperatureStd  float64 `csv:"temperature_std"`
	TemperatureMin  float64 `csv:"temperature_min"`
	TemperatureMax  float64 `csv:"temperature_max"`
}

// Percentile calculates the p-th percentile of a sorted slice by linear
// interpolation between closest ranks. p is in [0, 1]. Returns 0 for an
// empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// Summarize computes population mean and standard deviation, extremes and
// deciles of values. values is sorted in place. An empty sample gives zeros.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	var d Distribution
	d.Mean, d.Std = stat.PopMeanStdDev(values, nil)
	d.Min = floats.Min(values)
	d.Max = floats.Max(values)

	sort.Float64s(values)
	d.P10 = Percentile(values, 0.10)
	d.P50 = Percentile(values, 0.50)
	d.P90 = Percentile(values, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("injected", s.Injected),
		slog.Int("culled", s.Culled),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("density_err_mean", s.DensityErrMean),
		slog.Float64("density_err_max", s.DensityErrMax),
		slog.Float64("pressure_mean", s.PressureMean),
		slog.Float64("neighbors_per_particle", s.NeighborsPerPtl),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("saturated_fraction", s.SaturatedFraction),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("temperature_mean", s.TemperatureMean),
		slog.Float64("temperature_std", s.TemperatureStd),
	)
}

// LogStats logs the headline numbers of the window.
func (s WindowStats) LogStats(logger *slog.Logger) {
	logger.Info("stats",
		"frame", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"density_mean", s.DensityMean,
		"density_err_max", s.DensityErrMax,
		"speed_mean", s.SpeedMean,
		"speed_max", s.SpeedMax,
		"temperature_mean", s.TemperatureMean,
	)
}
