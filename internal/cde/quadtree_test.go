package cde

import (
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
)

func squareSurrogate(minX, minY, maxX, maxY float64) *geom.Surrogate {
	poly := geom.NewPolygon([]geom.Point{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY},
	})
	return geom.BuildSurrogate(poly)
}

func TestQueryBBoxFindsIntersectingAndExcludesSelf(t *testing.T) {
	e := New(geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, 0, 0)
	e.Insert(Hazard{ID: 1, Surrogate: squareSurrogate(0, 0, 10, 10)})
	e.Insert(Hazard{ID: 2, Surrogate: squareSurrogate(50, 50, 60, 60)})

	got := e.QueryBBox(geom.BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}, ExteriorHazard)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("QueryBBox overlapping hazard 1 = %v, want exactly [hazard 1]", got)
	}

	none := e.QueryBBox(geom.BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}, 1)
	if len(none) != 0 {
		t.Errorf("QueryBBox with hazard 1 excluded = %v, want empty", none)
	}
}

func TestQueryBBoxDeduplicatesAcrossSplitNodes(t *testing.T) {
	// Force a split by exceeding the threshold, then query a region the
	// split would otherwise register a hazard into more than once.
	e := New(geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, 4, 2)
	for i := HazardID(1); i <= 5; i++ {
		e.Insert(Hazard{ID: i, Surrogate: squareSurrogate(40, 40, 60, 60)})
	}
	got := e.QueryBBox(geom.BBox{MinX: 30, MinY: 30, MaxX: 70, MaxY: 70}, 0)
	if len(got) != 5 {
		t.Errorf("QueryBBox returned %d hazards, want 5 distinct (no duplicates across split nodes)", len(got))
	}
}

func TestRemoveUnregistersHazard(t *testing.T) {
	e := New(geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, 0, 0)
	e.Insert(Hazard{ID: 1, Surrogate: squareSurrogate(0, 0, 10, 10)})
	e.Remove(1)

	if got := e.QueryBBox(geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, 0); len(got) != 0 {
		t.Errorf("QueryBBox after Remove = %v, want empty", got)
	}
	if _, ok := e.Hazard(1); ok {
		t.Errorf("Hazard(1) after Remove reports present, want absent")
	}
}

func TestPresenceFullVsPartialVsNone(t *testing.T) {
	e := New(geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, 0, 0)
	e.Insert(Hazard{ID: 1, Surrogate: squareSurrogate(10, 10, 20, 20)})

	if got := e.Presence(1, geom.BBox{MinX: 0, MinY: 0, MaxX: 30, MaxY: 30}); got != PresenceFull {
		t.Errorf("Presence(fully containing query) = %v, want PresenceFull", got)
	}
	if got := e.Presence(1, geom.BBox{MinX: 15, MinY: 15, MaxX: 30, MaxY: 30}); got != PresencePartial {
		t.Errorf("Presence(overlapping query) = %v, want PresencePartial", got)
	}
	if got := e.Presence(1, geom.BBox{MinX: 50, MinY: 50, MaxX: 60, MaxY: 60}); got != PresenceNone {
		t.Errorf("Presence(disjoint query) = %v, want PresenceNone", got)
	}
}

func TestCloneIsIndependentCopy(t *testing.T) {
	e := New(geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, 0, 0)
	e.Insert(Hazard{ID: 1, Surrogate: squareSurrogate(0, 0, 10, 10)})

	clone := e.Clone()
	clone.Remove(1)

	if _, ok := e.Hazard(1); !ok {
		t.Errorf("original engine lost hazard 1 after mutating clone")
	}
	if _, ok := clone.Hazard(1); ok {
		t.Errorf("clone still has hazard 1 after Remove")
	}
}

func TestContainsExactPointInPolygon(t *testing.T) {
	e := New(geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, 0, 0)
	e.Insert(Hazard{ID: 1, Surrogate: squareSurrogate(0, 0, 10, 10)})

	if !e.Contains(1, geom.Point{X: 5, Y: 5}) {
		t.Errorf("Contains(center point) = false, want true")
	}
	if e.Contains(1, geom.Point{X: 50, Y: 50}) {
		t.Errorf("Contains(far point) = true, want false")
	}
}
