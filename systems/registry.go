package systems

// SystemInfo describes one solver stage for UI display.
type SystemInfo struct {
	ID          string // Phase name reported to the timer
	Name        string // Display name
	Description string // What this stage does
	Category    string // Grouping (e.g., "spatial", "physics")
}

// SystemRegistry holds metadata about the solver stages.
// This centralizes stage naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with every stage of a step, in
// execution order.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all stages to the registry.
// Update this when adding a stage to the step.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "grid", Name: "Grid", Description: "Rebuilds the spatial hash", Category: "spatial"})
	r.Register(SystemInfo{ID: "neighbors", Name: "Neighbors", Description: "Gathers neighbour lists", Category: "spatial"})
	r.Register(SystemInfo{ID: "density", Name: "Density", Description: "Sums density and applies the equation of state", Category: "physics"})
	r.Register(SystemInfo{ID: "forces", Name: "Forces", Description: "Pressure, viscosity, surface tension and gravity", Category: "physics"})
	r.Register(SystemInfo{ID: "thermal", Name: "Thermal", Description: "Diffuses temperature", Category: "physics"})
	r.Register(SystemInfo{ID: "integrate", Name: "Integrate", Description: "Advances particles and resolves the boundary", Category: "physics"})
}

// Register adds a stage to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns stage info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a stage ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered stages.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all stage IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
