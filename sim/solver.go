// Package sim drives the SPH solver: it owns the particles and the spatial
// hash and runs the stages of one step in order.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/systems"
)

// State is the lifecycle state of a Solver.
type State int

const (
	Uninitialized State = iota
	Initialized
	Stepping
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Phase names for the solver step.
const (
	PhaseGrid      = "grid"
	PhaseNeighbors = "neighbors"
	PhaseDensity   = "density"
	PhaseForces    = "forces"
	PhaseThermal   = "thermal"
	PhaseIntegrate = "integrate"
)

// Phases lists the step phases in execution order.
var Phases = []string{PhaseGrid, PhaseNeighbors, PhaseDensity, PhaseForces, PhaseThermal, PhaseIntegrate}

// PhaseTimer receives phase boundaries during Step.
type PhaseTimer interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

type nopTimer struct{}

func (nopTimer) StartTick()        {}
func (nopTimer) StartPhase(string) {}
func (nopTimer) EndTick()          {}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPhaseTimer reports per-phase timing of every Step to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(s *Solver) {
		if t != nil {
			s.timer = t
		}
	}
}

// Solver advances a weakly compressible SPH fluid inside a fixed box.
// It is not safe for concurrent use.
type Solver struct {
	params Params
	fluid  systems.FluidParams
	box    components.Container

	store   *systems.ParticleStore
	grid    *systems.SpatialHash
	nbrs    systems.NeighborList
	thermal *systems.ScalarDiffusion
	rng     *rand.Rand

	state State
	time  float64
	frame int64

	logger  *slog.Logger
	timer   PhaseTimer
	scratch []float64
}

// New validates the parameters and container and fills the initial lattice.
func New(params Params, box components.Container, opts ...Option) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		params:  params,
		fluid:   params.fluid(),
		box:     box,
		store:   systems.NewParticleStore(params.ParticleCount),
		grid:    systems.NewSpatialHash(params.H, params.ParticleCount),
		thermal: systems.NewThermalDiffusion(),
		logger:  slog.Default(),
		timer:   nopTimer{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.initialize()
	return s, nil
}

// initialize refills the lattice and zeroes the clock.
func (s *Solver) initialize() {
	s.store.Reset(s.params.ParticleCount)
	n := s.store.FillLattice(s.box, s.params.lattice())
	for i := range s.store.Particles {
		p := &s.store.Particles[i]
		p.Color = systems.ParticleColor(0, 0, s.fluid)
	}

	s.rng = rand.New(rand.NewSource(s.params.Seed))
	s.time = 0
	s.frame = 0
	s.state = Initialized

	s.logger.Debug("solver initialized",
		"particles", n,
		"capacity", s.params.ParticleCount,
		"h", s.params.H,
	)
}

// Step advances the simulation by one time step. Each stage completes over
// every particle before the next begins.
func (s *Solver) Step() {
	particles := s.store.Particles
	s.timer.StartTick()

	s.timer.StartPhase(PhaseGrid)
	s.grid.Rebuild(particles)

	s.timer.StartPhase(PhaseNeighbors)
	s.nbrs.Gather(s.grid, particles, s.params.H)

	s.timer.StartPhase(PhaseDensity)
	systems.ComputeDensity(particles, &s.nbrs, s.fluid)

	s.timer.StartPhase(PhaseForces)
	systems.ComputeForces(particles, &s.nbrs, s.fluid)

	if s.params.EnableTemperature {
		s.timer.StartPhase(PhaseThermal)
		s.thermal.Apply(particles, &s.nbrs, s.params.ThermalDiffusivity, s.params.H, s.params.TimeStep)
	}

	s.timer.StartPhase(PhaseIntegrate)
	systems.Integrate(particles, s.box, s.fluid)

	s.timer.EndTick()

	s.time += s.params.TimeStep
	s.frame++
	s.state = Stepping
}

// AddParticleStream injects up to count particles around position with the
// given velocity and temperature. Particles past capacity are dropped.
// Returns the number added.
func (s *Solver) AddParticleStream(position, velocity r3.Vec, count int, temperature float64) int {
	start := s.store.Len()
	added := s.store.Emit(systems.EmitSpec{
		Origin:      position,
		Velocity:    velocity,
		Count:       count,
		Mass:        s.params.ParticleMass,
		Temperature: temperature,
		Jitter:      s.params.StreamJitter,
		Life:        s.params.StreamLife,
	}, s.rng)

	for i := start; i < s.store.Len(); i++ {
		p := s.store.At(i)
		p.Color = systems.ParticleColor(p.Speed(), 0, s.fluid)
	}
	if added < count {
		s.logger.Debug("stream truncated at capacity", "requested", count, "added", added)
	}
	return added
}

// RemoveOldParticles drops every particle whose age has reached its life.
// Returns the number removed.
func (s *Solver) RemoveOldParticles() int {
	removed := s.store.Cull()
	if removed > 0 {
		s.logger.Debug("culled particles", "removed", removed, "remaining", s.store.Len())
	}
	return removed
}

// UpdateParameters merges u into the current parameters. Changing the
// particle count reinitializes the lattice. An invalid merge returns an
// error and leaves the solver unchanged.
func (s *Solver) UpdateParameters(u ParamsUpdate) error {
	next := u.Apply(s.params)
	if err := next.Validate(); err != nil {
		return fmt.Errorf("update parameters: %w", err)
	}

	prev := s.params
	s.params = next
	s.fluid = next.fluid()

	if next.H != prev.H {
		s.grid.SetCellSize(next.H)
	}
	if next.ParticleCount != prev.ParticleCount {
		s.logger.Debug("particle count changed, reinitializing",
			"from", prev.ParticleCount,
			"to", next.ParticleCount,
		)
		s.initialize()
	}
	return nil
}

// Reset zeroes the clock and refills the lattice.
func (s *Solver) Reset() {
	s.initialize()
}

// Particles returns the live particles. The slice is owned by the solver and
// is only valid until the next mutating call.
func (s *Solver) Particles() []components.Particle {
	return s.store.Particles
}

// CopyParticles appends a snapshot of the particles to dst[:0].
func (s *Solver) CopyParticles(dst []components.Particle) []components.Particle {
	return append(dst[:0], s.store.Particles...)
}

// Params returns the current parameters.
func (s *Solver) Params() Params {
	return s.params
}

// Container returns the simulation box.
func (s *Solver) Container() components.Container {
	return s.box
}

// State returns the lifecycle state.
func (s *Solver) State() State {
	return s.state
}

// Time returns the simulated time in seconds.
func (s *Solver) Time() float64 {
	return s.time
}

// Frame returns the number of completed steps.
func (s *Solver) Frame() int64 {
	return s.frame
}

// NeighborPairs returns the neighbour count of the last step, each pair
// counted from both sides.
func (s *Solver) NeighborPairs() int {
	return s.nbrs.Total()
}
