package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/game"
	"github.com/pthm-cable/sph/telemetry"
)

// Fitness weights. Density error is the target; saturation and residual
// motion penalise stiffness high enough to make the fluid jitter.
const (
	saturationWeight = 2.0
	motionWeight     = 0.5
	failedFitness    = 1e9
)

// scenario is one headless run used to score a parameter vector.
type scenario struct {
	name        string
	latticeFrac float64 // share of capacity placed at start
	streamEvery int64   // 0 disables the stream
}

var scenarios = []scenario{
	{name: "settle", latticeFrac: 1},
	{name: "pour", latticeFrac: 0.5, streamEvery: 200},
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxSteps    int64
	baseConfig  *config.Config
	statsWindow float64

	mu   sync.Mutex
	last EvalRow // breakdown of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxSteps:    maxSteps,
		baseConfig:  baseCfg,
		statsWindow: 0.05,
	}
}

// Last returns the score breakdown of the most recent evaluation.
func (fe *FitnessEvaluator) Last() EvalRow {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds the windows of one scenario run.
type runResult struct {
	windows     []telemetry.WindowStats
	maxVelocity float64
}

// Evaluate computes fitness for raw parameter values (lower = better),
// averaged over every scenario.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(scenarios))
	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fe.runSimulation(x, sc)
		}()
	}
	wg.Wait()

	var row EvalRow
	for _, r := range results {
		if r == nil {
			return failedFitness
		}
		s := score(r)
		row.DensityErr += s.DensityErr
		row.Saturated += s.Saturated
		row.Motion += s.Motion
	}
	n := float64(len(results))
	row.DensityErr /= n
	row.Saturated /= n
	row.Motion /= n
	row.Fitness = row.DensityErr + saturationWeight*row.Saturated + motionWeight*row.Motion
	if math.IsNaN(row.Fitness) || math.IsInf(row.Fitness, 0) {
		row.Fitness = failedFitness
	}

	fe.mu.Lock()
	fe.last = row
	fe.mu.Unlock()
	return row.Fitness
}

// runSimulation executes one headless run and collects its stats windows.
// Returns nil if the solver rejects the configuration.
func (fe *FitnessEvaluator) runSimulation(x []float64, sc scenario) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Lattice.Count = int(math.Round(sc.latticeFrac * float64(cfg.Lattice.ParticleCount)))

	result := &runResult{maxVelocity: cfg.Fluid.MaxVelocity}
	g, err := game.NewGameWithOptions(cfg, game.Options{
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerFrame:  1,
		StreamEvery:    sc.streamEvery,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
		},
	})
	if err != nil {
		return nil
	}
	defer g.Unload()

	for g.Frame() < fe.maxSteps {
		g.UpdateHeadless()
	}
	return result
}

// score averages the second half of a run, after the initial collapse of
// the lattice.
func score(r *runResult) EvalRow {
	settled := r.windows[len(r.windows)/2:]
	if len(settled) == 0 {
		return EvalRow{DensityErr: 1, Saturated: 1, Motion: 1}
	}
	var row EvalRow
	for _, w := range settled {
		row.DensityErr += w.DensityErrMean
		row.Saturated += w.SaturatedFraction
		if r.maxVelocity > 0 {
			row.Motion += w.SpeedMean / r.maxVelocity
		}
	}
	n := float64(len(settled))
	row.DensityErr /= n
	row.Saturated /= n
	row.Motion /= n
	return row
}

// copyConfig creates a copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
