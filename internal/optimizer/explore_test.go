package optimizer

import (
	"math/rand"
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
	"github.com/erlendvik/packfold/internal/report"
	"github.com/erlendvik/packfold/internal/striplayout"
	"github.com/erlendvik/packfold/internal/terminator"
)

// countingTerminator fires after n calls to ShouldTerminate, letting a
// test bound an otherwise-unbounded exploration/compression loop.
func countingTerminator(n int) terminator.Terminator {
	count := 0
	return terminator.Func(func() bool {
		count++
		return count > n
	})
}

func widelySeparatedLayout() *striplayout.Layout {
	square := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	item1 := model.NewItem(0, "a", square, model.FixedRotation(), 1)
	item2 := model.NewItem(1, "b", square, model.FixedRotation(), 1)

	layout := striplayout.New(20, 20)
	layout.Insert(item1, geom.Transform{TX: 0, TY: 0}, 0)
	layout.Insert(item2, geom.Transform{TX: 15, TY: 15}, 0)
	return layout
}

func TestRunExplorationFeasibleWidthsStrictlyDecrease(t *testing.T) {
	layout := widelySeparatedLayout()
	sep := NewSeparator(layout, 1, tinySeparatorParams())
	rng := rand.New(rand.NewSource(1))

	params := ExploreParams{ShrinkStep: 0.01, CutoffPercentile: 0.75, GaussianSigma: 0.25}
	result := RunExploration(rng, sep, countingTerminator(9), report.NullListener{}, params)

	if len(result.FeasibleSolutions) < 2 {
		t.Fatalf("RunExploration recorded %d feasible solutions, want at least 2 to check monotonicity", len(result.FeasibleSolutions))
	}
	for i := 1; i < len(result.FeasibleSolutions); i++ {
		prev, cur := result.FeasibleSolutions[i-1], result.FeasibleSolutions[i]
		if cur.width >= prev.width {
			t.Errorf("feasible solution widths not strictly decreasing: %v then %v", prev.width, cur.width)
		}
		if cur.loss != 0 || prev.loss != 0 {
			t.Errorf("recorded feasible solutions must have zero loss, got %v, %v", prev.loss, cur.loss)
		}
	}
}

func TestRunExplorationBestReturnsNarrowestSolution(t *testing.T) {
	layout := widelySeparatedLayout()
	sep := NewSeparator(layout, 1, tinySeparatorParams())
	rng := rand.New(rand.NewSource(2))

	params := ExploreParams{ShrinkStep: 0.01, CutoffPercentile: 0.75, GaussianSigma: 0.25}
	result := RunExploration(rng, sep, countingTerminator(6), report.NullListener{}, params)

	best := result.Best()
	if best == nil {
		t.Fatalf("Best() = nil, want a feasible solution")
	}
	if best != result.FeasibleSolutions[len(result.FeasibleSolutions)-1] {
		t.Errorf("Best() did not return the last (narrowest) recorded solution")
	}
}

func TestExplorationResultBestNilWhenNoneFeasible(t *testing.T) {
	result := &ExplorationResult{}
	if got := result.Best(); got != nil {
		t.Errorf("Best() on empty result = %v, want nil", got)
	}
}

func TestPickPoolIndexWithinRangeAndSingleEntryIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	if got := pickPoolIndex(rng, 1, 0.25); got != 0 {
		t.Errorf("pickPoolIndex(n=1) = %v, want 0", got)
	}
	if got := pickPoolIndex(rng, 0, 0.25); got != 0 {
		t.Errorf("pickPoolIndex(n=0) = %v, want 0", got)
	}
	for i := 0; i < 200; i++ {
		idx := pickPoolIndex(rng, 10, 0.25)
		if idx < 0 || idx >= 10 {
			t.Fatalf("pickPoolIndex(n=10) = %v, want in [0, 10)", idx)
		}
	}
}

func TestDiffersByRelativeThreshold(t *testing.T) {
	if !differsBy(100, 102, 0.01) {
		t.Errorf("differsBy(100, 102, 1%%) = false, want true (2%% relative difference)")
	}
	if differsBy(100, 100.5, 0.01) {
		t.Errorf("differsBy(100, 100.5, 1%%) = true, want false (0.5%% relative difference)")
	}
	if !differsBy(0, 1, 0.01) {
		t.Errorf("differsBy(0, 1, ...) = false, want true (any nonzero vs zero differs)")
	}
}
