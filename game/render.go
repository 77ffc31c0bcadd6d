package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/ui"
)

const controlsLegend = "Drag: orbit | Wheel: zoom | Space: inject | R: reset | P: pause | V: style | Tab: panel | </>: steps"

// Draw renders the fluid, the HUD and the controls panel. Slider changes
// and button presses are applied before returning.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 18, A: 255})

	perf := g.perfCollector.Stats()
	g.particles.Draw(g.camera, g.solver.Container(), g.solver.Particles())

	g.hud.Draw(ui.HUDData{
		Title:         "SPH Fluid",
		Stats:         g.solver.Statistics(),
		Params:        g.solver.Params(),
		Perf:          perf,
		StepsPerFrame: g.stepsPerFrame,
		Paused:        g.paused,
		LastEvent:     g.lastEvent,
	})
	g.hud.DrawControls(g.screenHeight, controlsLegend)
	g.perfPanel.Draw(g.screenWidth, g.screenHeight, perf)

	action := g.controls.Draw(g.screenWidth, g.solver.Params())

	rl.EndDrawing()

	if action.Changed {
		g.applyUpdate(action.Update)
	}
	if action.Inject {
		g.injectStream()
	}
	if action.Reset {
		g.reset()
	}
}
