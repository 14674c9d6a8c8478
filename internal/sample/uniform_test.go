package sample

import (
	"math/rand"
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

func TestNewUniformBBoxSamplerNoneIffEmptyRange(t *testing.T) {
	item := unitSquareItem(1)

	// A sample box large enough to admit the unit square at theta=0.
	_, ok := NewUniformBBoxSampler(item, geom.BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5})
	if !ok {
		t.Fatalf("NewUniformBBoxSampler returned ok=false for a box that fits the item")
	}

	// A sample box strictly smaller than the item's own footprint admits
	// no translation at any fixed-rotation angle.
	_, ok = NewUniformBBoxSampler(item, geom.BBox{MinX: 0, MinY: 0, MaxX: 0.5, MaxY: 0.5})
	if ok {
		t.Errorf("NewUniformBBoxSampler returned ok=true for a box smaller than the item")
	}
}

func TestUniformBBoxSamplerDrawsWithinRange(t *testing.T) {
	item := unitSquareItem(1)
	s, ok := NewUniformBBoxSampler(item, geom.BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5})
	if !ok {
		t.Fatalf("NewUniformBBoxSampler returned ok=false unexpectedly")
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		tr := s.Sample(rng)
		if tr.TX < 0 || tr.TX > 4 || tr.TY < 0 || tr.TY > 4 {
			t.Fatalf("Sample() = %+v, want TX,TY within [0,4] (box inset by the unit square's own extent)", tr)
		}
	}
}

func TestFocusedBBoxClampsToContainer(t *testing.T) {
	container := geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	ref := geom.BBox{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}

	got := FocusedBBox(ref, container, 5)
	if got.MinX < container.MinX || got.MinY < container.MinY {
		t.Errorf("FocusedBBox() = %+v, extends below container min", got)
	}
	if got.MaxX > container.MaxX || got.MaxY > container.MaxY {
		t.Errorf("FocusedBBox() = %+v, extends beyond container max", got)
	}
}

func TestNewUniformBBoxSamplerDiscreteRotationSkipsInfeasibleAngles(t *testing.T) {
	tall := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 4}, {X: 0, Y: 4}})
	item := model.NewItem(1, "tall", tall, model.DiscreteRotation([]float64{0}), 1)

	// A box wide enough but not tall enough for the unrotated item.
	_, ok := NewUniformBBoxSampler(item, geom.BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 2})
	if ok {
		t.Errorf("NewUniformBBoxSampler returned ok=true for a box shorter than the only admissible orientation")
	}
}
