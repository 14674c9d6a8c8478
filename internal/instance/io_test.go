package instance

import (
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
	"github.com/erlendvik/packfold/internal/striplayout"
)

func TestBuildSolutionFromSnapshot(t *testing.T) {
	square := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	item := model.NewItem(7, "square", square, model.FixedRotation(), 1)

	layout := striplayout.New(10, 10)
	layout.Insert(item, geom.Transform{Theta: 0.5, TX: 2, TY: 3}, 0)
	snap := layout.Save()

	sol := BuildSolutionFromSnapshot(snap)

	if sol.StripWidth != 10 {
		t.Errorf("StripWidth = %v, want 10", sol.StripWidth)
	}
	if len(sol.Placements) != 1 {
		t.Fatalf("len(Placements) = %d, want 1", len(sol.Placements))
	}
	p := sol.Placements[0]
	if p.ItemID != 7 || p.Theta != 0.5 || p.TX != 2 || p.TY != 3 {
		t.Errorf("Placements[0] = %+v, want {ItemID:7 Theta:0.5 TX:2 TY:3}", p)
	}
	if sol.EpochTimeMs <= 0 {
		t.Errorf("EpochTimeMs = %d, want a positive timestamp", sol.EpochTimeMs)
	}
}

func TestBuildSolutionFromSnapshotEmpty(t *testing.T) {
	layout := striplayout.New(5, 5)
	sol := BuildSolutionFromSnapshot(layout.Save())

	if sol.StripWidth != 5 {
		t.Errorf("StripWidth = %v, want 5", sol.StripWidth)
	}
	if len(sol.Placements) != 0 {
		t.Errorf("len(Placements) = %d, want 0", len(sol.Placements))
	}
}
