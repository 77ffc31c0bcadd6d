package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Mouse and keyboard sensitivities for the orbit camera.
const (
	rotateSpeed = 0.005 // radians per pixel
	keyRotate   = 0.03  // radians per frame
	panSpeed    = 0.001 // distance fraction per pixel
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		n := g.injectStream()
		slog.Debug("stream injected", "added", n, "particles", len(g.solver.Particles()))
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyV) {
		g.particles.ToggleStyle()
	}

	// Steps-per-frame control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerFrame > 1 {
		g.stepsPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerFrame < 20 {
		g.stepsPerFrame++
	}

	g.handleCameraInput()
}

// handleResize tracks the window size for the UI layout.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = int32(rl.GetScreenWidth())
	g.screenHeight = int32(rl.GetScreenHeight())
}

// handleCameraInput processes orbit, pan and zoom controls.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()
	overPanel := g.controls.Contains(g.screenWidth, mouse)

	if !overPanel {
		delta := rl.GetMouseDelta()
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			g.camera.Rotate(-float64(delta.X)*rotateSpeed, float64(delta.Y)*rotateSpeed)
		}
		if rl.IsMouseButtonDown(rl.MouseButtonMiddle) || rl.IsMouseButtonDown(rl.MouseButtonRight) {
			g.camera.Pan(-float64(delta.X)*panSpeed, float64(delta.Y)*panSpeed)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			g.camera.ZoomBy(1 - float64(wheel)*0.1)
		}
	}

	// Arrow keys orbit
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Rotate(-keyRotate, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Rotate(keyRotate, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Rotate(0, keyRotate)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Rotate(0, -keyRotate)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(1.25)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
