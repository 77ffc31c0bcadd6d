// Command sphterm runs the solver in a terminal and draws a side view of
// the container as ASCII density.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nsf/termbox-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/sim"
)

// ramp maps particles per cell to glyphs, sparse to dense.
var ramp = []rune(" .:-=+*#%@")

// speedColors bucket mean cell speed from slow to fast.
var speedColors = []termbox.Attribute{
	termbox.ColorBlue,
	termbox.ColorCyan,
	termbox.ColorGreen,
	termbox.ColorYellow,
	termbox.ColorRed,
}

type view struct {
	solver *sim.Solver
	stream config.StreamConfig

	w, h   int
	counts []int
	speeds []float64

	paused bool
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	stepsPerFrame := flag.Int("steps-per-frame", 5, "Solver steps per redraw")
	fps := flag.Int("fps", 30, "Redraws per second")
	logPath := flag.String("log", "sphterm.log", "Log file (the terminal is taken by the view)")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	solver, err := sim.New(sim.ParamsFromConfig(cfg), sim.ContainerFromConfig(cfg), sim.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, "create solver:", err)
		os.Exit(1)
	}

	if err := termbox.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "init terminal:", err)
		os.Exit(1)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)

	v := &view{solver: solver, stream: cfg.Stream}
	v.resize(termbox.Size())

	events := make(chan termbox.Event)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(max(*fps, 1)))
	defer ticker.Stop()

mainloop:
	for {
		select {
		case ev := <-events:
			switch ev.Type {
			case termbox.EventKey:
				if ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
					break mainloop
				}
				v.handleKey(ev)
			case termbox.EventMouse:
				if ev.Key == termbox.MouseLeft {
					v.injectAt(ev.MouseX)
				}
			case termbox.EventResize:
				v.resize(ev.Width, ev.Height)
			case termbox.EventError:
				logger.Error("terminal event", "error", ev.Err)
				break mainloop
			}
		case <-ticker.C:
			if !v.paused {
				for i := 0; i < *stepsPerFrame; i++ {
					solver.Step()
				}
				solver.RemoveOldParticles()
			}
			v.redraw()
		}
	}
	logger.Info("exit", "stats", solver.Statistics())
}

func (v *view) handleKey(ev termbox.Event) {
	switch {
	case ev.Key == termbox.KeySpace:
		v.inject(vec(v.stream.Origin))
	case ev.Ch == 'r':
		v.solver.Reset()
	case ev.Ch == 'p':
		v.paused = !v.paused
	case ev.Ch == 't':
		on := !v.solver.Params().EnableTemperature
		if err := v.solver.UpdateParameters(sim.ParamsUpdate{EnableTemperature: &on}); err != nil {
			slog.Warn("toggle temperature", "error", err)
		}
	}
}

// injectAt pours the stream from above the clicked column.
func (v *view) injectAt(col int) {
	box := v.solver.Container()
	origin := vec(v.stream.Origin)
	if v.w > 0 {
		origin.X = box.Min.X + (float64(col)+0.5)/float64(v.w)*(box.Max.X-box.Min.X)
	}
	v.inject(origin)
}

func (v *view) inject(origin r3.Vec) {
	n := v.solver.AddParticleStream(origin, vec(v.stream.Velocity), v.stream.Count, v.stream.Temperature)
	slog.Debug("stream injected", "added", n)
}

// resize keeps one row for the status line.
func (v *view) resize(w, h int) {
	v.w, v.h = w, max(h-1, 1)
	v.counts = make([]int, v.w*v.h)
	v.speeds = make([]float64, v.w*v.h)
}

// cell maps pos onto a w×h grid over the box's XY face, row 0 at the top.
// Particles on Max or outside the box land in the edge cells.
func cell(pos r3.Vec, box components.Container, w, h int) (col, row int) {
	size := r3.Sub(box.Max, box.Min)
	col = int((pos.X - box.Min.X) / size.X * float64(w))
	row = h - 1 - int((pos.Y-box.Min.Y)/size.Y*float64(h))
	return min(max(col, 0), w-1), min(max(row, 0), h-1)
}

// redraw projects particles onto the XY plane, y up.
func (v *view) redraw() {
	clear(v.counts)
	clear(v.speeds)

	box := v.solver.Container()
	for _, p := range v.solver.Particles() {
		col, row := cell(p.Position, box, v.w, v.h)
		i := row*v.w + col
		v.counts[i]++
		v.speeds[i] += p.Speed()
	}

	maxCount := 1
	for _, c := range v.counts {
		maxCount = max(maxCount, c)
	}
	maxSpeed := v.solver.Params().MaxVelocity

	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for row := 0; row < v.h; row++ {
		for col := 0; col < v.w; col++ {
			i := row*v.w + col
			c := v.counts[i]
			if c == 0 {
				continue
			}
			glyph := ramp[min(len(ramp)-1, 1+c*(len(ramp)-2)/maxCount)]
			speed := v.speeds[i] / float64(c)
			bucket := min(len(speedColors)-1, int(speed/maxSpeed*float64(len(speedColors))*4))
			termbox.SetCell(col, row, glyph, speedColors[bucket], termbox.ColorDefault)
		}
	}

	st := v.solver.Statistics()
	status := fmt.Sprintf(" t=%.3fs n=%d rho=%.1f T=%.2fK  [space] pour [click] pour here [t] temp [r] reset [p] pause [q] quit",
		st.SimulationTime, st.ParticleCount, st.AverageDensity, st.AverageTemperature)
	for i, ch := range []rune(status) {
		if i >= v.w {
			break
		}
		termbox.SetCell(i, v.h, ch, termbox.ColorBlack, termbox.ColorWhite)
	}
	termbox.Flush()
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
