package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/sim"
)

// Slider edits one fluid parameter.
type Slider struct {
	Label    string
	Min, Max float64
	Get      func(sim.Params) float64
	Set      func(u *sim.ParamsUpdate, p sim.Params, v float64)
}

// DefaultSliders returns the sliders shown by the controls panel.
func DefaultSliders() []Slider {
	return []Slider{
		{
			Label: "Viscosity", Min: 0, Max: 20,
			Get: func(p sim.Params) float64 { return p.Viscosity },
			Set: func(u *sim.ParamsUpdate, _ sim.Params, v float64) { u.Viscosity = sim.Ptr(v) },
		},
		{
			Label: "Stiffness", Min: 0.5, Max: 50,
			Get: func(p sim.Params) float64 { return p.Stiffness },
			Set: func(u *sim.ParamsUpdate, _ sim.Params, v float64) { u.Stiffness = sim.Ptr(v) },
		},
		{
			Label: "Surface tension", Min: 0, Max: 1,
			Get: func(p sim.Params) float64 { return p.SurfaceTension },
			Set: func(u *sim.ParamsUpdate, _ sim.Params, v float64) { u.SurfaceTension = sim.Ptr(v) },
		},
		{
			Label: "Damping", Min: 0.9, Max: 1,
			Get: func(p sim.Params) float64 { return p.Damping },
			Set: func(u *sim.ParamsUpdate, _ sim.Params, v float64) { u.Damping = sim.Ptr(v) },
		},
		{
			Label: "Gravity", Min: -20, Max: 0,
			Get: func(p sim.Params) float64 { return p.Gravity.Y },
			Set: func(u *sim.ParamsUpdate, p sim.Params, v float64) {
				u.Gravity = sim.Ptr(r3.Vec{X: p.Gravity.X, Y: v, Z: p.Gravity.Z})
			},
		},
		{
			Label: "Diffusivity", Min: 0, Max: 0.1,
			Get: func(p sim.Params) float64 { return p.ThermalDiffusivity },
			Set: func(u *sim.ParamsUpdate, _ sim.Params, v float64) { u.ThermalDiffusivity = sim.Ptr(v) },
		},
	}
}

// ControlsAction is what the user asked for while the panel was drawn.
type ControlsAction struct {
	Update  sim.ParamsUpdate
	Changed bool // Update carries at least one field
	Inject  bool
	Reset   bool
}

// ControlsPanel renders the right-side parameter panel.
type ControlsPanel struct {
	renderer *Renderer
	sliders  []Slider
	width    int32
	visible  bool
}

// NewControlsPanel creates a visible panel with the default sliders.
func NewControlsPanel(width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		sliders:  DefaultSliders(),
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether the screen point lies on the panel, so mouse
// drags there are not taken as camera input.
func (c *ControlsPanel) Contains(screenWidth int32, pos rl.Vector2) bool {
	return c.visible && pos.X >= float32(screenWidth-c.width-10)
}

// Draw renders the panel against the right edge and returns the requested
// changes.
func (c *ControlsPanel) Draw(screenWidth int32, params sim.Params) ControlsAction {
	var action ControlsAction
	if !c.visible {
		return action
	}

	r := c.renderer
	padding := r.Theme.Padding
	rowHeight := int32(40)
	height := padding*3 + r.Theme.LineHeight + int32(len(c.sliders))*rowHeight + 3*34

	x := screenWidth - c.width - 10
	y := int32(10)
	r.DrawPanel(x, y, c.width, height)

	cx := float32(x + padding)
	cy := r.DrawSectionHeader(x+padding, y+padding, "Parameters") + 4
	sliderWidth := float32(c.width - 2*padding - 60)

	for _, s := range c.sliders {
		current := s.Get(params)
		rl.DrawText(s.Label, int32(cx), cy, r.Theme.FontSize, r.Theme.LabelColor)
		v := gui.SliderBar(
			rl.Rectangle{X: cx, Y: float32(cy + 14), Width: sliderWidth, Height: 16},
			"", "",
			float32(current), float32(s.Min), float32(s.Max),
		)
		rl.DrawText(fmt.Sprintf("%.3g", current), int32(cx+sliderWidth+6), cy+16, r.Theme.FontSize, r.Theme.ValueColor)
		if v != float32(current) {
			s.Set(&action.Update, params, float64(v))
			action.Changed = true
		}
		cy += rowHeight
	}

	buttonWidth := float32(c.width - 2*padding)
	temp := "Temperature: off"
	if params.EnableTemperature {
		temp = "Temperature: on"
	}
	if gui.Button(rl.Rectangle{X: cx, Y: float32(cy), Width: buttonWidth, Height: 28}, temp) {
		action.Update.EnableTemperature = sim.Ptr(!params.EnableTemperature)
		action.Changed = true
	}
	cy += 34
	if gui.Button(rl.Rectangle{X: cx, Y: float32(cy), Width: buttonWidth, Height: 28}, "Inject stream") {
		action.Inject = true
	}
	cy += 34
	if gui.Button(rl.Rectangle{X: cx, Y: float32(cy), Width: buttonWidth, Height: 28}, "Reset") {
		action.Reset = true
	}

	return action
}
