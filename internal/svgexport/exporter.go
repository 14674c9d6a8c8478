package svgexport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erlendvik/packfold/internal/report"
)

// Exporter is a report.Listener that writes SVG files at up to three
// cadences (original_source/src/util/svg_exporter.rs's SvgExporter):
// a single live file overwritten on every solution event, one file per
// feasible/final event dropped into a directory, and a final file
// written once the run's last solution arrives.
type Exporter struct {
	FinalPath       string
	IntermediateDir string
	LivePath        string

	counter int
}

// NewExporter builds an Exporter, clearing any existing .svg files
// from intermediateDir so a run's files aren't mixed with a previous
// run's (mirrors the original constructor's directory sweep). Any of
// the three paths may be left empty to disable that cadence.
func NewExporter(finalPath, intermediateDir, livePath string) (*Exporter, error) {
	if intermediateDir != "" {
		entries, err := os.ReadDir(intermediateDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("svgexport: reading intermediate dir %q: %w", intermediateDir, err)
		}
		for _, e := range entries {
			if strings.EqualFold(filepath.Ext(e.Name()), ".svg") {
				if err := os.Remove(filepath.Join(intermediateDir, e.Name())); err != nil {
					return nil, fmt.Errorf("svgexport: clearing %q: %w", e.Name(), err)
				}
			}
		}
	}
	return &Exporter{FinalPath: finalPath, IntermediateDir: intermediateDir, LivePath: livePath}, nil
}

// OnSolution writes the event's layout according to the configured
// cadences. Errors are not fatal to a run (an export failure shouldn't
// abort the search), so they're swallowed after logging to stderr —
// matching the original's `.expect(...)` calls being the only failure
// path, here downgraded to non-fatal since this is collaboration, not
// core behavior.
func (e *Exporter) OnSolution(ev report.SolutionEvent) {
	if ev.Layout == nil {
		return
	}
	suffix := suffixFor(ev.Kind)
	name := fmt.Sprintf("%d_%s_%s", e.counter, roundedWidth(ev.Width), suffix)

	if e.LivePath != "" {
		if err := WriteFile(ev.Layout, e.LivePath); err != nil {
			fmt.Fprintf(os.Stderr, "svgexport: live write failed: %v\n", err)
		}
	}
	if e.IntermediateDir != "" && ev.Kind != report.ExplorationImproving {
		path := filepath.Join(e.IntermediateDir, name+".svg")
		if err := WriteFile(ev.Layout, path); err != nil {
			fmt.Fprintf(os.Stderr, "svgexport: intermediate write failed: %v\n", err)
		}
		e.counter++
	}
	if e.FinalPath != "" && ev.Kind == report.Final {
		if err := WriteFile(ev.Layout, e.FinalPath); err != nil {
			fmt.Fprintf(os.Stderr, "svgexport: final write failed: %v\n", err)
		}
	}
}

// OnSeparatorProgress is a no-op: the separator's strike-loop progress
// has no layout snapshot cheap enough to export on every iteration.
func (e *Exporter) OnSeparatorProgress(report.SeparatorEvent) {}

func suffixFor(kind report.EventKind) string {
	switch kind {
	case report.ExplorationFeasible:
		return "expl_f"
	case report.ExplorationInfeasible:
		return "expl_nf"
	case report.ExplorationImproving:
		return "expl_i"
	case report.CompressionFeasible:
		return "cmpr"
	case report.Final:
		return "final"
	default:
		return "unknown"
	}
}
