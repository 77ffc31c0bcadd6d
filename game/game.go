// Package game drives a solver with telemetry, and with a raylib viewer
// when not headless.
package game

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/sim"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

// Options configures a Game beyond what the config file holds.
type Options struct {
	Seed           int64 // 0 keeps the configured lattice seed
	LogStats       bool
	StatsWindowSec float64 // 0 uses the configured window
	OutputDir      string
	Headless       bool
	StepsPerFrame  int
	StreamEvery    int64 // inject a stream every N frames, 0 disables
	FrameEvery     int64 // dump particles every N frames, 0 disables

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// stream is the injection the viewer and StreamEvery use.
type stream struct {
	origin      r3.Vec
	velocity    r3.Vec
	count       int
	temperature float64
}

// Game owns a solver and everything that observes it.
type Game struct {
	solver *sim.Solver
	stream stream

	// Telemetry
	collector     *telemetry.Collector
	detector      *telemetry.EventDetector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	lastEvent     *telemetry.Event
	statsCallback func(telemetry.WindowStats)
	streamEvery   int64
	frameEvery    int64

	// Viewer, nil when headless
	camera    *camera.Orbit
	particles *renderer.ParticleRenderer
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel

	paused        bool
	stepsPerFrame int
	screenWidth   int32
	screenHeight  int32
}

// NewGameWithOptions builds the solver and telemetry from cfg. Raylib must
// already have a window unless opts.Headless is set.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	params := sim.ParamsFromConfig(cfg)
	if opts.Seed != 0 {
		params.Seed = opts.Seed
	}
	box := sim.ContainerFromConfig(cfg)

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	solver, err := sim.New(params, box,
		sim.WithLogger(slog.Default()),
		sim.WithPhaseTimer(perf),
	)
	if err != nil {
		return nil, fmt.Errorf("creating solver: %w", err)
	}

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		window = opts.StatsWindowSec
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	steps := opts.StepsPerFrame
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		solver: solver,
		stream: stream{
			origin:      r3.Vec{X: cfg.Stream.Origin[0], Y: cfg.Stream.Origin[1], Z: cfg.Stream.Origin[2]},
			velocity:    r3.Vec{X: cfg.Stream.Velocity[0], Y: cfg.Stream.Velocity[1], Z: cfg.Stream.Velocity[2]},
			count:       cfg.Stream.Count,
			temperature: cfg.Stream.Temperature,
		},
		collector:     telemetry.NewCollector(window, params.TimeStep),
		detector:      telemetry.NewEventDetector(cfg.Telemetry.EventHistorySize, cfg.Telemetry.Events),
		perfCollector: perf,
		outputManager: om,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		streamEvery:   opts.StreamEvery,
		frameEvery:    opts.FrameEvery,
		stepsPerFrame: steps,
		screenWidth:   int32(cfg.Screen.Width),
		screenHeight:  int32(cfg.Screen.Height),
	}

	if !opts.Headless {
		g.camera = camera.New(box.Min, box.Max)
		g.particles = renderer.NewParticleRenderer(params.H * 0.25)
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(260)
		g.perfPanel = ui.NewPerfPanel()
	}

	slog.Info("game created",
		"particle_count", params.ParticleCount,
		"seed", params.Seed,
		"stats_window", window,
		"headless", opts.Headless,
		"output_dir", om.Dir(),
	)
	return g, nil
}

// UpdateHeadless advances the simulation without touching raylib.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerFrame; i++ {
		g.simulationStep()
	}
	g.perfCollector.RecordFrame()
}

// Update handles input and advances the simulation unless paused.
func (g *Game) Update() {
	g.handleInput()
	if !g.paused {
		for i := 0; i < g.stepsPerFrame; i++ {
			g.simulationStep()
		}
	}
	g.perfCollector.RecordFrame()
}

// simulationStep runs one solver step with its surrounding bookkeeping.
func (g *Game) simulationStep() {
	if g.streamEvery > 0 && g.solver.Frame()%g.streamEvery == 0 {
		g.injectStream()
	}

	g.solver.Step()

	if n := g.solver.RemoveOldParticles(); n > 0 {
		g.collector.RecordCulled(n)
	}

	frame := g.solver.Frame()
	if g.frameEvery > 0 && frame%g.frameEvery == 0 {
		g.dumpFrame()
	}
	g.flushTelemetry()
}

// injectStream adds the configured stream to the solver.
func (g *Game) injectStream() int {
	s := g.stream
	n := g.solver.AddParticleStream(s.origin, s.velocity, s.count, s.temperature)
	g.collector.RecordInjected(n)
	return n
}

// reset restarts the solver and the telemetry windows that depend on its
// clock.
func (g *Game) reset() {
	g.solver.Reset()
	g.resetTelemetry()
	slog.Info("simulation reset")
}

// resetTelemetry drops window and event state after the solver clock goes
// back to zero.
func (g *Game) resetTelemetry() {
	g.collector.Reset()
	g.detector.Reset()
	g.lastEvent = nil
}

// applyUpdate pushes a parameter change into the solver, logging rejects.
// A particle count change reinitializes the solver, so telemetry restarts
// with it.
func (g *Game) applyUpdate(u sim.ParamsUpdate) {
	before := g.solver.Params().ParticleCount
	if err := g.solver.UpdateParameters(u); err != nil {
		slog.Warn("parameter update rejected", "error", err)
		return
	}
	if g.solver.Params().ParticleCount != before {
		g.resetTelemetry()
	}
}

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Frame returns the number of completed solver steps.
func (g *Game) Frame() int64 {
	return g.solver.Frame()
}

// Solver exposes the underlying solver.
func (g *Game) Solver() *sim.Solver {
	return g.solver
}
