// Package reportx renders end-of-run and benchmark summaries as
// terminal tables, in the style of the teacher's
// `cmd/keycraft/ranking_render.go` (`go-pretty/v6/table`, rounded
// style, right-aligned numeric columns).
package reportx

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RunSummary is the data behind a single run's end-of-run table.
type RunSummary struct {
	InstanceName string
	ItemCount    int
	FinalWidth   float64
	StripHeight  float64
	Elapsed      time.Duration
}

// Density returns the fraction of the final strip's area the placed
// items occupy, for a density column alongside the raw width.
func (s RunSummary) Density(totalItemArea float64) float64 {
	area := s.FinalWidth * s.StripHeight
	if area <= 0 {
		return 0
	}
	return totalItemArea / area
}

// RenderRunSummary renders s as a single-row table, the way
// `cmd/keycraft/render.go`'s `MetricsString` lays out a fixed set of
// named fields.
func RenderRunSummary(s RunSummary, totalItemArea float64) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	tw.AppendHeader(table.Row{"field", "value"})
	tw.AppendRow(table.Row{"instance", s.InstanceName})
	tw.AppendRow(table.Row{"items", s.ItemCount})
	tw.AppendRow(table.Row{"strip width", fmt.Sprintf("%.3f", s.FinalWidth)})
	tw.AppendRow(table.Row{"density", fmt.Sprintf("%.2f%%", 100*s.Density(totalItemArea))})
	tw.AppendRow(table.Row{"elapsed", s.Elapsed.Round(time.Millisecond).String()})
	return tw.Render()
}
