package game

import (
	"log/slog"

	"github.com/pthm-cable/sph/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles events.
func (g *Game) flushTelemetry() {
	frame := g.solver.Frame()
	if !g.collector.ShouldFlush(frame) {
		return
	}

	params := g.solver.Params()
	stats := g.collector.Flush(telemetry.FlushInput{
		Frame:         frame,
		SimTime:       g.solver.Time(),
		Particles:     g.solver.Particles(),
		RestDensity:   params.RestDensity,
		MaxVelocity:   params.MaxVelocity,
		NeighborPairs: g.solver.NeighborPairs(),
	})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats(slog.Default())
		perfStats.LogStats(slog.Default())
	}

	if err := g.outputManager.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, e := range g.detector.Check(stats) {
		if g.logStats {
			e.Log(slog.Default())
		}
		if err := g.outputManager.WriteEvent(e); err != nil {
			slog.Error("failed to write event", "error", err)
		}
		g.lastEvent = &e
	}
}

// dumpFrame writes the current particles to the output directory.
func (g *Game) dumpFrame() {
	path, err := g.outputManager.WriteFrame(g.solver.Frame(), g.solver.Particles())
	if err != nil {
		slog.Error("failed to write frame", "error", err)
		return
	}
	if path != "" {
		slog.Debug("frame written", "path", path)
	}
}
