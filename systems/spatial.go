// Package systems provides the SPH solver stages and their supporting
// structures: kernels, spatial hash, particle store and neighbour lists.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Neighbor holds a nearby particle with precomputed spatial data.
// This avoids recomputing the offset and distance in every stage.
type Neighbor struct {
	Index int32   // slot in the particle store
	Delta r3.Vec  // query position minus neighbour position
	Dist  float64 // |Delta|
}

// cellKey is an integer grid coordinate.
type cellKey struct {
	X, Y, Z int32
}

// hashEntry is one inserted particle, chained within its bucket.
type hashEntry struct {
	index int32
	next  int32
	cell  cellKey
	pos   r3.Vec
}

// SpatialHash is a uniform-cell index over particle positions. Cells are
// hashed into a power-of-two bucket table; entries live in one arena that is
// truncated, not reallocated, on Clear.
type SpatialHash struct {
	cellSize float64
	mask     uint32
	heads    []int32
	entries  []hashEntry
}

// NewSpatialHash creates a hash sized for roughly capacity particles.
func NewSpatialHash(cellSize float64, capacity int) *SpatialHash {
	g := &SpatialHash{cellSize: cellSize}
	g.Reserve(capacity)
	return g
}

// Reserve grows the bucket table and entry arena so capacity particles can
// be inserted without reallocation. It clears the hash if the table grows.
func (g *SpatialHash) Reserve(capacity int) {
	size := 64
	for size < 2*capacity {
		size <<= 1
	}
	if size > len(g.heads) {
		g.heads = make([]int32, size)
		g.mask = uint32(size - 1)
		g.entries = g.entries[:0]
		for i := range g.heads {
			g.heads[i] = -1
		}
	}
	if cap(g.entries) < capacity {
		entries := make([]hashEntry, len(g.entries), capacity)
		copy(entries, g.entries)
		g.entries = entries
	}
}

// CellSize returns the current cell edge length.
func (g *SpatialHash) CellSize() float64 {
	return g.cellSize
}

// SetCellSize changes the cell edge length and empties the hash.
func (g *SpatialHash) SetCellSize(cellSize float64) {
	g.cellSize = cellSize
	g.Clear()
}

// Len returns the number of inserted particles.
func (g *SpatialHash) Len() int {
	return len(g.entries)
}

// Clear removes all particles from the hash.
func (g *SpatialHash) Clear() {
	for i := range g.heads {
		g.heads[i] = -1
	}
	g.entries = g.entries[:0]
}

// Insert adds the particle in slot index at the given position.
func (g *SpatialHash) Insert(index int32, pos r3.Vec) {
	key := g.cellOf(pos)
	b := g.bucket(key)
	g.entries = append(g.entries, hashEntry{
		index: index,
		next:  g.heads[b],
		cell:  key,
		pos:   pos,
	})
	g.heads[b] = int32(len(g.entries) - 1)
}

// QueryInto finds particles within radius of pos and appends them to dst.
// Returns the updated slice. Reuse dst across calls to avoid allocations.
// The result may contain the particle located at pos itself; callers
// exclude it by ID.
func (g *SpatialHash) QueryInto(dst []Neighbor, pos r3.Vec, radius float64) []Neighbor {
	if len(g.entries) == 0 || radius < 0 {
		return dst
	}

	ring := int32(math.Ceil(radius / g.cellSize))
	center := g.cellOf(pos)
	radiusSq := radius * radius

	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			for dz := -ring; dz <= ring; dz++ {
				key := cellKey{center.X + dx, center.Y + dy, center.Z + dz}
				for e := g.heads[g.bucket(key)]; e >= 0; e = g.entries[e].next {
					entry := &g.entries[e]
					// Other cells can share the bucket
					if entry.cell != key {
						continue
					}
					delta := r3.Sub(pos, entry.pos)
					distSq := r3.Dot(delta, delta)
					if distSq <= radiusSq {
						dst = append(dst, Neighbor{
							Index: entry.index,
							Delta: delta,
							Dist:  math.Sqrt(distSq),
						})
					}
				}
			}
		}
	}

	return dst
}

// cellOf floor-divides each axis by the cell size.
func (g *SpatialHash) cellOf(pos r3.Vec) cellKey {
	return cellKey{
		X: int32(math.Floor(pos.X / g.cellSize)),
		Y: int32(math.Floor(pos.Y / g.cellSize)),
		Z: int32(math.Floor(pos.Z / g.cellSize)),
	}
}

// bucket hashes a cell key into the head table.
func (g *SpatialHash) bucket(k cellKey) uint32 {
	h := uint32(k.X)*73856093 ^ uint32(k.Y)*19349663 ^ uint32(k.Z)*83492791
	return h & g.mask
}
