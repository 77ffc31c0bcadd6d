package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
)

var testBox = components.Container{Max: r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	values := []float64{1000, 1010, 990, 1005, 995}
	d := Summarize(values)

	if math.Abs(d.Mean-1000) > 1e-9 {
		t.Errorf("mean = %v, want 1000", d.Mean)
	}
	// Population std of {0, 10, -10, 5, -5}
	if want := math.Sqrt(50); math.Abs(d.Std-want) > 1e-9 {
		t.Errorf("std = %v, want %v", d.Std, want)
	}
	if d.Min != 990 || d.Max != 1010 {
		t.Errorf("min/max = %v/%v, want 990/1010", d.Min, d.Max)
	}
	if d.P50 != 1000 {
		t.Errorf("p50 = %v, want 1000", d.P50)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if d := Summarize(nil); d != (Distribution{}) {
		t.Errorf("empty sample summary = %+v, want zeros", d)
	}
}
