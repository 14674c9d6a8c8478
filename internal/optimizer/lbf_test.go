package optimizer

import (
	"math/rand"
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

func squareItem(id model.ItemID, side float64, quantity int) *model.Item {
	poly := geom.NewPolygon([]geom.Point{
		{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side},
	})
	return model.NewItem(id, "square", poly, model.FixedRotation(), quantity)
}

func TestExpandInstancesOneEntryPerCopy(t *testing.T) {
	items := []*model.Item{squareItem(0, 1, 3), squareItem(1, 1, 1)}
	instances := ExpandInstances(items)

	if len(instances) != 4 {
		t.Fatalf("ExpandInstances returned %d instances, want 4 (3 copies + 1 copy)", len(instances))
	}
	counts := map[model.ItemID]int{}
	for _, inst := range instances {
		counts[inst.Item.ID]++
	}
	if counts[0] != 3 || counts[1] != 1 {
		t.Errorf("per-item instance counts = %v, want {0:3, 1:1}", counts)
	}
}

func TestBuildLBFPlacesEveryInstanceWithoutOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	items := []*model.Item{squareItem(0, 1, 3)}
	instances := ExpandInstances(items)

	layout, err := BuildLBF(rng, instances, 10, 5)
	if err != nil {
		t.Fatalf("BuildLBF returned error: %v", err)
	}
	keys := layout.Keys()
	if len(keys) != 3 {
		t.Fatalf("BuildLBF placed %d items, want 3", len(keys))
	}
	for _, pk := range keys {
		if got := layout.CollidingHazards(pk); len(got) != 0 {
			t.Errorf("placement %v collides with %d other hazards, want a collision-free LBF construction", pk, len(got))
		}
	}
}

func TestBuildLBFGrowsStripWidthWhenTooNarrow(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	items := []*model.Item{squareItem(0, 1, 5)}
	instances := ExpandInstances(items)

	// A 1x2 strip holds at most two unit squares, so placing five forces
	// at least one growth-and-retry cycle before every instance fits.
	layout, err := BuildLBF(rng, instances, 2, 1)
	if err != nil {
		t.Fatalf("BuildLBF returned error: %v", err)
	}
	if layout.Width() <= 1 {
		t.Errorf("Width() = %v after placing 5 unit squares in an initial width-1 strip, want it to have grown", layout.Width())
	}
}
