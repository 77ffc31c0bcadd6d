package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/sim"
	"github.com/pthm-cable/sph/systems"
	"github.com/pthm-cable/sph/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Stats         sim.Statistics
	Params        sim.Params
	Perf          telemetry.PerfStats
	StepsPerFrame int
	Paused        bool
	LastEvent     *telemetry.Event
}

// statsSections lists what the stats panel shows. Bars are scaled to the
// live parameters.
var statsSections = []SectionDescriptor{
	{
		Title: "Fluid",
		Fields: []FieldDescriptor{
			{Label: "Particles", Format: "%.0f", Getter: func(d any) float32 {
				return float32(d.(HUDData).Stats.ParticleCount)
			}},
			{Label: "Density", Widget: WidgetBar, Range: FieldRange{Max: 2000}, Getter: func(d any) float32 {
				return float32(d.(HUDData).Stats.AverageDensity)
			}},
			{Label: "Pressure", Widget: WidgetCenteredBar, Range: FieldRange{Min: -50, Max: 50}, Getter: func(d any) float32 {
				return float32(d.(HUDData).Stats.AveragePressure)
			}},
			{Label: "Speed", Widget: WidgetBar, Range: FieldRange{Max: 10}, Getter: func(d any) float32 {
				return float32(d.(HUDData).Stats.AverageSpeed)
			}},
			{Label: "Temperature", TextGetter: func(d any) string {
				h := d.(HUDData)
				if !h.Params.EnableTemperature {
					return fmt.Sprintf("%.2f K (off)", h.Stats.AverageTemperature)
				}
				return fmt.Sprintf("%.2f K", h.Stats.AverageTemperature)
			}},
		},
	},
	{
		Title: "Clock",
		Fields: []FieldDescriptor{
			{Label: "Sim time", TextGetter: func(d any) string {
				return fmt.Sprintf("%.3f s", d.(HUDData).Stats.SimulationTime)
			}},
			{Label: "Frame", TextGetter: func(d any) string {
				return fmt.Sprintf("%d", d.(HUDData).Stats.FrameCount)
			}},
			{Label: "Step", TextGetter: func(d any) string {
				p := d.(HUDData).Perf
				return fmt.Sprintf("%v (%.0f/s)", p.AvgStepDuration.Round(time.Microsecond), p.StepsPerSecond)
			}},
		},
	},
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), width: 280}
}

// Draw renders the title line and the stats panel in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	status := fmt.Sprintf("FPS: %.0f | Steps/frame: %d", data.Perf.FPS, data.StepsPerFrame)
	if data.Paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, 10, 35, 16, rl.LightGray)

	height := r.Theme.Padding * 2
	for _, s := range statsSections {
		height += s.Height(r.Theme) + r.Theme.Padding
	}
	x, y := int32(10), int32(60)
	r.DrawPanel(x, y, h.width, height)

	y += r.Theme.Padding
	for _, s := range statsSections {
		y = r.DrawSection(x+r.Theme.Padding, y, s, data, h.width-2*r.Theme.Padding)
		y += r.Theme.Padding
	}

	if data.LastEvent != nil {
		rl.DrawText(fmt.Sprintf("[%s] %s", data.LastEvent.Type, data.LastEvent.Description),
			x, y+r.Theme.Padding, r.Theme.FontSize, rl.Orange)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the share of step time spent in each solver stage.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: systems.NewSystemRegistry(),
		width:    240,
	}
}

// Draw renders the panel in the bottom-right corner.
func (p *PerfPanel) Draw(screenWidth, screenHeight int32, perf telemetry.PerfStats) {
	r := p.renderer
	stages := p.registry.All()
	height := r.Theme.Padding*2 + r.Theme.LineHeight + int32(len(stages))*(r.Theme.LineHeight+2)
	x := screenWidth - p.width - 10
	y := screenHeight - height - 40
	r.DrawPanel(x, y, p.width, height)

	y = r.DrawSectionHeader(x+r.Theme.Padding, y+r.Theme.Padding, "Step time")
	for _, info := range stages {
		pct := float32(perf.PhasePct[info.ID])
		y = r.DrawBar(x+r.Theme.Padding, y, info.Name, pct, 0, 100, p.width-2*r.Theme.Padding)
	}
}
