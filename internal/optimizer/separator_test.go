package optimizer

import (
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
	"github.com/erlendvik/packfold/internal/report"
	"github.com/erlendvik/packfold/internal/sample"
	"github.com/erlendvik/packfold/internal/striplayout"
	"github.com/erlendvik/packfold/internal/terminator"
)

func tinySeparatorParams() SeparatorParams {
	return SeparatorParams{
		NumWorkers:       1,
		IterNoImproveLim: 2,
		StrikeLimit:      1,
		SampleConfig:     sample.Config{NContainer: 2, NFocused: 0, NCoordDescents: 1},
	}
}

func TestSeparateReturnsImmediatelyOnZeroLoss(t *testing.T) {
	square := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	item1 := model.NewItem(0, "a", square, model.FixedRotation(), 1)
	item2 := model.NewItem(1, "b", square, model.FixedRotation(), 1)

	layout := striplayout.New(20, 20)
	layout.Insert(item1, geom.Transform{TX: 0, TY: 0}, 0)
	layout.Insert(item2, geom.Transform{TX: 10, TY: 10}, 0)

	sep := NewSeparator(layout, 1, tinySeparatorParams())
	_, _, bestLoss := sep.Separate(terminator.Never, report.NullListener{})

	if bestLoss != 0 {
		t.Errorf("Separate() on an already non-overlapping layout returned bestLoss=%v, want 0", bestLoss)
	}
}

func TestSeparateNeverReturnsWorseThanInitialLoss(t *testing.T) {
	square := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	item1 := model.NewItem(0, "a", square, model.FixedRotation(), 1)
	item2 := model.NewItem(1, "b", square, model.FixedRotation(), 1)

	layout := striplayout.New(10, 10)
	layout.Insert(item1, geom.Transform{TX: 0, TY: 0}, 0)
	layout.Insert(item2, geom.Transform{TX: 0.5, TY: 0}, 0)

	sep := NewSeparator(layout, 1, tinySeparatorParams())
	initialLoss := sep.CT.GetTotalLoss()

	_, _, bestLoss := sep.Separate(terminator.Never, report.NullListener{})
	if bestLoss > initialLoss {
		t.Errorf("Separate() returned bestLoss=%v, want <= initial loss %v (the recorded best must never regress)", bestLoss, initialLoss)
	}
}
