package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/sph/components"
)

// ParticleRow is one particle in a frame dump.
type ParticleRow struct {
	ID          uint64  `csv:"id"`
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	Z           float64 `csv:"z"`
	VX          float64 `csv:"vx"`
	VY          float64 `csv:"vy"`
	VZ          float64 `csv:"vz"`
	Density     float64 `csv:"density"`
	Pressure    float64 `csv:"pressure"`
	Temperature float64 `csv:"temperature"`
	Age         float64 `csv:"age"`
	Color       string  `csv:"color"`
}

// ParticleRows flattens particles for CSV export.
func ParticleRows(particles []components.Particle) []ParticleRow {
	rows := make([]ParticleRow, len(particles))
	for i := range particles {
		p := &particles[i]
		rows[i] = ParticleRow{
			ID:          p.ID,
			X:           p.Position.X,
			Y:           p.Position.Y,
			Z:           p.Position.Z,
			VX:          p.Velocity.X,
			VY:          p.Velocity.Y,
			VZ:          p.Velocity.Z,
			Density:     p.Density,
			Pressure:    p.Pressure,
			Temperature: p.Temperature,
			Age:         p.Age,
			Color:       p.Color.Hex(),
		}
	}
	return rows
}

// WriteFrameCSV writes particles to dir/frame_<frame>.csv, creating dir if
// needed. Returns the file path.
func WriteFrameCSV(dir string, frame int64, particles []components.Particle) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create frame dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame_%06d.csv", frame))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create frame file: %w", err)
	}
	if err := gocsv.Marshal(ParticleRows(particles), f); err != nil {
		f.Close()
		return "", fmt.Errorf("write frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close frame file: %w", err)
	}
	return path, nil
}

// ReadFrameCSV loads a frame dump written by WriteFrameCSV.
func ReadFrameCSV(path string) ([]ParticleRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	var rows []ParticleRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return rows, nil
}
