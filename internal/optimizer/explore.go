package optimizer

import (
	"math"
	"math/rand"
	"sort"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
	"github.com/erlendvik/packfold/internal/report"
	"github.com/erlendvik/packfold/internal/striplayout"
	"github.com/erlendvik/packfold/internal/terminator"
)

// ExploreParams are spec §4.12's tunables (defaults in spec §6).
type ExploreParams struct {
	ShrinkStep float64
	// MaxConseqFailedAttempts bounds the tabu pool's size before the
	// phase gives up; nil (the spec §6 default outside -x mode) never
	// triggers.
	MaxConseqFailedAttempts *int
	CutoffPercentile        float64
	// GaussianSigma parameterizes the |N(0,sigma)| pool-index draw of
	// step 3a.
	GaussianSigma float64
}

// DefaultExploreParams matches spec §6's explore defaults.
var DefaultExploreParams = ExploreParams{
	ShrinkStep:       0.001,
	CutoffPercentile: 0.75,
	GaussianSigma:    0.25,
}

// ExplorationResult is the phase's outcome: every feasible solution
// reached, in discovery order (the last is the narrowest / best).
type ExplorationResult struct {
	FeasibleSolutions []*solutionGenome
}

// Best returns the narrowest feasible solution found, or nil if none
// was reached.
func (r *ExplorationResult) Best() *solutionGenome {
	if len(r.FeasibleSolutions) == 0 {
		return nil
	}
	return r.FeasibleSolutions[len(r.FeasibleSolutions)-1]
}

// RunExploration drives spec §4.12's outer loop: repeatedly separate
// at the current width, shrinking on every feasibility and disrupting
// the layout on every failure, until the terminator fires or (in -x
// mode) the tabu pool overflows.
func RunExploration(rng *rand.Rand, sep *Separator, term terminator.Terminator, listener report.Listener, params ExploreParams) *ExplorationResult {
	currentWidth := sep.Layout.Width()
	bestWidth := currentWidth

	result := &ExplorationResult{}
	pool := newSolutionPool()

	for !term.ShouldTerminate() {
		layoutSnap, ctSnap, loss := sep.Separate(term, listener)

		if loss == 0 {
			if currentWidth < bestWidth {
				bestWidth = currentWidth
				result.FeasibleSolutions = append(result.FeasibleSolutions, &solutionGenome{
					layout: layoutSnap, ct: ctSnap, width: currentWidth, loss: 0,
				})
				listener.OnSolution(report.SolutionEvent{Kind: report.ExplorationFeasible, Width: currentWidth, Loss: 0, Layout: layoutSnap})
			}
			currentWidth *= 1 - params.ShrinkStep
			sep.ChangeStripWidth(currentWidth, nil)
			pool.clear()
			continue
		}

		pool.insertSorted(&solutionGenome{layout: layoutSnap, ct: ctSnap, width: currentWidth, loss: loss})
		if params.MaxConseqFailedAttempts != nil && pool.len() >= *params.MaxConseqFailedAttempts {
			break
		}

		sol := pool.at(pickPoolIndex(rng, pool.len(), params.GaussianSigma))
		sep.Layout.Restore(sol.layout)
		sep.CT.RestoreButKeepWeights(sol.ct, sep.Layout)

		listener.OnSolution(report.SolutionEvent{Kind: report.ExplorationImproving, Width: sol.width, Loss: sol.loss})
		disruptSolution(rng, sep.Layout, params.CutoffPercentile)
	}

	return result
}

// pickPoolIndex draws |N(0,sigma)| clamped below 1 and maps it onto
// [0, n) so lower-loss (better-ranked) entries are favored (spec
// §4.12 step 3a).
func pickPoolIndex(rng *rand.Rand, n int, sigma float64) int {
	if n <= 1 {
		return 0
	}
	u := math.Abs(rng.NormFloat64() * sigma)
	if u >= 1 {
		u = math.Nextafter(1, 0)
	}
	idx := int(u * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// disruptSolution implements spec §4.12a: swap two large items'
// placements (mapping rotations through each item's own feasible set),
// then drag along every item "practically contained" by either
// item's new footprint.
func disruptSolution(rng *rand.Rand, layout *striplayout.Layout, cutoffPercentile float64) {
	keys := layout.Keys()
	if len(keys) < 2 {
		return
	}

	keyA, keyB, ok := selectDisruptionPair(rng, layout, keys, cutoffPercentile)
	if !ok {
		return
	}

	itemA, itemB := layout.ItemAt(keyA), layout.ItemAt(keyB)
	transformA, transformB := layout.TransformAt(keyA), layout.TransformAt(keyB)

	newTransformA := transformB.WithTheta(itemA.Rotation.SnapToFeasible(transformB.Theta))
	newTransformB := transformA.WithTheta(itemB.Rotation.SnapToFeasible(transformA.Theta))

	deltaA := geom.Point{X: newTransformA.TX - transformA.TX, Y: newTransformA.TY - transformA.TY}
	deltaB := geom.Point{X: newTransformB.TX - transformB.TX, Y: newTransformB.TY - transformB.TY}

	containedA := practicallyContained(layout, keyA, itemA.Shape.Transformed(newTransformA))
	containedB := practicallyContained(layout, keyB, itemB.Shape.Transformed(newTransformB))

	layout.Move(keyA, newTransformA)
	layout.Move(keyB, newTransformB)

	dragAlong(layout, containedA, deltaA)
	dragAlong(layout, containedB, deltaB)
}

// selectDisruptionPair implements spec §4.12a (i)-(ii): compute the
// large-item cutoff from cumulative convex-hull area, then pick two
// distinct large items differing in both area and diameter by at
// least 1% (falling back to any other item if no such pair exists).
func selectDisruptionPair(rng *rand.Rand, layout *striplayout.Layout, keys []model.PlacementKey, cutoffPercentile float64) (model.PlacementKey, model.PlacementKey, bool) {
	type entry struct {
		pk   model.PlacementKey
		area float64
	}
	entries := make([]entry, len(keys))
	total := 0.0
	for i, pk := range keys {
		a := layout.ItemAt(pk).ConvexHullArea()
		entries[i] = entry{pk: pk, area: a}
		total += a
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].area > entries[j].area })

	cutoff := 0.0
	cum := 0.0
	for _, e := range entries {
		cum += e.area
		cutoff = e.area
		if cum >= cutoffPercentile*total {
			break
		}
	}

	var large []model.PlacementKey
	for _, e := range entries {
		if e.area >= cutoff {
			large = append(large, e.pk)
		}
	}
	if len(large) < 2 {
		large = keys
	}

	first := large[rng.Intn(len(large))]
	firstItem := layout.ItemAt(first)

	candidates := make([]model.PlacementKey, 0, len(large))
	for _, pk := range large {
		if pk == first {
			continue
		}
		other := layout.ItemAt(pk)
		if differsBy(firstItem.ConvexHullArea(), other.ConvexHullArea(), 0.01) &&
			differsBy(firstItem.Diameter, other.Diameter, 0.01) {
			candidates = append(candidates, pk)
		}
	}
	if len(candidates) == 0 {
		for _, pk := range keys {
			if pk != first {
				candidates = append(candidates, pk)
			}
		}
	}
	if len(candidates) == 0 {
		return 0, 0, false
	}
	second := candidates[rng.Intn(len(candidates))]
	return first, second, true
}

func differsBy(a, b, relTol float64) bool {
	if a == 0 {
		return b != 0
	}
	return math.Abs(a-b)/a >= relTol
}

// practicallyContained returns every other placed item (besides
// exclude) whose pole of inaccessibility lies inside footprint (spec
// §4.12a (iv)).
func practicallyContained(layout *striplayout.Layout, exclude model.PlacementKey, footprint *geom.Polygon) []model.PlacementKey {
	var out []model.PlacementKey
	for _, pk := range layout.Keys() {
		if pk == exclude {
			continue
		}
		poi := layout.ItemAt(pk).TransformedSurrogate(layout.TransformAt(pk)).POI.Center
		if footprint.Contains(poi) {
			out = append(out, pk)
		}
	}
	return out
}

// dragAlong translates every key in keys by delta, snapping each
// item's rotation to its own feasible set afterward.
func dragAlong(layout *striplayout.Layout, keys []model.PlacementKey, delta geom.Point) {
	for _, pk := range keys {
		item := layout.ItemAt(pk)
		t := layout.TransformAt(pk)
		t = t.Translated(delta.X, delta.Y)
		t = t.WithTheta(item.Rotation.SnapToFeasible(t.Theta))
		layout.Move(pk, t)
	}
}
