package reportx

import (
	"math"
	"testing"
)

func TestMedianOddEven(t *testing.T) {
	tests := []struct {
		name string
		v    []float64
		want float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"single", []float64{5}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(tt.v)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Median(%v) = %f, want %f", tt.v, got, tt.want)
			}
		})
	}
}

func TestPercentileBounds(t *testing.T) {
	v := []float64{10, 20, 30, 40, 50}
	if got := Percentile(v, 0); got != 10 {
		t.Errorf("Percentile(0) = %f, want 10", got)
	}
	if got := Percentile(v, 1); got != 50 {
		t.Errorf("Percentile(1) = %f, want 50", got)
	}
}

func TestAverageAndStdDev(t *testing.T) {
	v := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	avg := Average(v)
	if math.Abs(avg-5) > 1e-9 {
		t.Errorf("Average = %f, want 5", avg)
	}
	sd := StdDev(v)
	if math.Abs(sd-2) > 1e-9 {
		t.Errorf("StdDev = %f, want 2", sd)
	}
}

func TestSummarizeDirection(t *testing.T) {
	v := []float64{3, 1, 2}
	widths := Summarize(v, false)
	if widths.Best != 1 || widths.Worst != 3 {
		t.Errorf("widths summary best/worst = %f/%f, want 1/3", widths.Best, widths.Worst)
	}
	density := Summarize(v, true)
	if density.Best != 3 || density.Worst != 1 {
		t.Errorf("density summary best/worst = %f/%f, want 3/1", density.Best, density.Worst)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, false)
	if s.Best != 0 || s.Worst != 0 {
		t.Errorf("empty summary should be zero-valued, got %+v", s)
	}
}
