package reportx

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// BenchRun is one completed run of the bench harness (spec §1's
// "benchmark harness... external collaboration", recovered in full
// from original_source/src/bench.rs).
type BenchRun struct {
	InstanceName string
	FinalWidth   float64
	Density      float64
	Elapsed      time.Duration
}

// Percentile returns the pct-th percentile (0..1) of v using the same
// Excel-style linear-interpolation rank formula bench.rs's
// calculate_percentile uses: k = pct*(n-1)+1, 1-indexed, interpolated
// between the floor and ceil ranks.
func Percentile(v []float64, pct float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)

	n := len(sorted)
	k := pct*float64(n-1) + 1
	lo := int(math.Floor(k))
	hi := int(math.Ceil(k))
	frac := k - float64(lo)
	loVal := sorted[lo-1]
	hiVal := sorted[hi-1]
	return loVal + frac*(hiVal-loVal)
}

// Median returns the 50th percentile of v.
func Median(v []float64) float64 { return Percentile(v, 0.5) }

// Average returns the arithmetic mean of v.
func Average(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// StdDev returns the population standard deviation of v.
func StdDev(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	avg := Average(v)
	sq := 0.0
	for _, x := range v {
		sq += (x - avg) * (x - avg)
	}
	return math.Sqrt(sq / float64(len(v)))
}

// BenchStats summarizes a column of bench measurements (width or
// density) the way bench.rs prints its "---- WIDTH STATS ----" /
// "---- USAGE STATS ----" blocks.
type BenchStats struct {
	Worst, Best, Median, Average, StdDev float64
	P25, P75                             float64
}

// Summarize computes a BenchStats over v. higherIsBetter controls
// which extreme is labeled Best vs Worst (widths: lower is better;
// density: higher is better).
func Summarize(v []float64, higherIsBetter bool) BenchStats {
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	s := BenchStats{
		Median:  Median(v),
		Average: Average(v),
		StdDev:  StdDev(v),
		P25:     Percentile(v, 0.25),
		P75:     Percentile(v, 0.75),
	}
	if len(sorted) == 0 {
		return s
	}
	if higherIsBetter {
		s.Worst, s.Best = sorted[0], sorted[len(sorted)-1]
	} else {
		s.Worst, s.Best = sorted[len(sorted)-1], sorted[0]
	}
	return s
}

// RenderBenchTable renders one row per run plus a widths/density
// statistics summary beneath it.
func RenderBenchTable(runs []BenchRun) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	tw.AppendHeader(table.Row{"instance", "width", "density", "elapsed"})

	widths := make([]float64, len(runs))
	densities := make([]float64, len(runs))
	for i, r := range runs {
		tw.AppendRow(table.Row{
			r.InstanceName,
			fmt.Sprintf("%.3f", r.FinalWidth),
			fmt.Sprintf("%.2f%%", 100*r.Density),
			r.Elapsed.Round(time.Millisecond).String(),
		})
		widths[i] = r.FinalWidth
		densities[i] = r.Density
	}

	widthStats := Summarize(widths, false)
	densityStats := Summarize(densities, true)
	tw.AppendFooter(table.Row{
		"best/worst",
		fmt.Sprintf("%.3f / %.3f", widthStats.Best, widthStats.Worst),
		fmt.Sprintf("%.2f%% / %.2f%%", 100*densityStats.Best, 100*densityStats.Worst),
		"",
	})
	tw.AppendFooter(table.Row{
		"median / avg / stddev",
		fmt.Sprintf("%.3f / %.3f / %.3f", widthStats.Median, widthStats.Average, widthStats.StdDev),
		fmt.Sprintf("%.2f%% / %.2f%% / %.2f%%", 100*densityStats.Median, 100*densityStats.Average, 100*densityStats.StdDev),
		"",
	})
	tw.AppendFooter(table.Row{
		"p25 / p75",
		fmt.Sprintf("%.3f / %.3f", widthStats.P25, widthStats.P75),
		fmt.Sprintf("%.2f%% / %.2f%%", 100*densityStats.P25, 100*densityStats.P75),
		"",
	})
	return tw.Render()
}
