package systems

import "github.com/pthm-cable/sph/components"

// NeighborList stores every particle's neighbours for one step in a flat
// arena: the neighbours of particle i are Items[Offsets[i]:Offsets[i+1]].
// Self matches are excluded by ID.
type NeighborList struct {
	Offsets []int
	Items   []Neighbor
	scratch []Neighbor
}

// Of returns the neighbours of particle i.
func (l *NeighborList) Of(i int) []Neighbor {
	return l.Items[l.Offsets[i]:l.Offsets[i+1]]
}

// Build rebuilds the hash from the particle positions and gathers the
// neighbours of every particle within radius.
func (l *NeighborList) Build(grid *SpatialHash, particles []components.Particle, radius float64) {
	grid.Rebuild(particles)
	l.Gather(grid, particles, radius)
}

// Rebuild clears the hash and inserts every particle by arena index.
func (g *SpatialHash) Rebuild(particles []components.Particle) {
	g.Reserve(len(particles))
	g.Clear()
	for i := range particles {
		g.Insert(int32(i), particles[i].Position)
	}
}

// Gather queries a hash already holding particles and fills the list.
func (l *NeighborList) Gather(grid *SpatialHash, particles []components.Particle, radius float64) {
	l.Offsets = append(l.Offsets[:0], 0)
	l.Items = l.Items[:0]
	for i := range particles {
		self := particles[i].ID
		l.scratch = grid.QueryInto(l.scratch[:0], particles[i].Position, radius)
		for _, n := range l.scratch {
			if particles[n.Index].ID == self {
				continue
			}
			l.Items = append(l.Items, n)
		}
		l.Offsets = append(l.Offsets, len(l.Items))
	}
}

// Total returns the number of stored neighbour pairs (each pair counted twice).
func (l *NeighborList) Total() int {
	return len(l.Items)
}
