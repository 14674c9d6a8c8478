//go:build packfold_debug

package quantify

import "fmt"

// assertTrackerConsistent recomputes every placement's loss from
// scratch against layout and panics if any cached value in t drifts
// from the fresh value by more than relativeTolerance. Call after an
// operation like RegisterItemMove that updates the moved item's row
// but leaves other rows untouched, trusting CDE adjacency to keep them
// symmetric.
func assertTrackerConsistent(t *Tracker, layout LayoutView) {
	fresh := NewTracker(layout)
	for _, pk := range t.keys {
		got := t.GetLoss(pk)
		want := fresh.GetLoss(pk)
		if !withinTolerance(got, want, relativeTolerance) {
			panic(fmt.Sprintf("quantify: tracker loss for placement %v = %g, recomputed = %g (tolerance %.0f%%)", pk, got, want, relativeTolerance*100))
		}
	}
}
