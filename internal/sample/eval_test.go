package sample

import (
	"testing"

	"github.com/erlendvik/packfold/internal/cde"
	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

func unitSquareItem(id model.ItemID) *model.Item {
	square := geom.NewPolygon([]geom.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	})
	return model.NewItem(id, "square", square, model.FixedRotation(), 1)
}

// registerSquareHazard inserts a unit square at the origin under id.
func registerSquareHazard(tree *cde.Engine, id cde.HazardID) {
	occupant := unitSquareItem(0)
	tree.Insert(cde.Hazard{ID: id, Surrogate: occupant.TransformedSurrogate(geom.Identity())})
}

// TestLBFEvaluatorInvalidOnAnyCollision is the table test the reviewer
// asked for against spec §4.5's "Returns Invalid on any collision": a
// transform overlapping an existing hazard must never fall through to
// Clear, regardless of how much loss collector.Collect accumulates
// before early-terminating.
func TestLBFEvaluatorInvalidOnAnyCollision(t *testing.T) {
	container := geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	tree := cde.New(container, 0, 0)
	registerSquareHazard(tree, 1)

	eval := &LBFEvaluator{Tree: tree, Container: container}
	item := unitSquareItem(2)

	cases := []struct {
		name      string
		transform geom.Transform
		wantKind  Kind
	}{
		{"fully overlapping", geom.Transform{TX: 0, TY: 0}, Invalid},
		{"partially overlapping", geom.Transform{TX: 0.5, TY: 0}, Invalid},
		{"clear of hazard", geom.Transform{TX: 5, TY: 5}, Clear},
		{"outside container", geom.Transform{TX: 9.5, TY: 9.5}, Invalid},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := eval.Evaluate(item, c.transform, 0)
			if got.Kind != c.wantKind {
				t.Errorf("Evaluate(%v) = %+v, want Kind %v", c.transform, got, c.wantKind)
			}
		})
	}
}

func TestSeparationEvaluatorCollisionBelowUpperBoundScoresLoss(t *testing.T) {
	container := geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	tree := cde.New(container, 0, 0)
	registerSquareHazard(tree, 1)

	eval := &SeparationEvaluator{
		Tree:      tree,
		Container: container,
		Exclude:   2,
		Weight:    func(cde.HazardID) float64 { return 1 },
	}
	item := unitSquareItem(2)

	clear := eval.Evaluate(item, geom.Transform{TX: 5, TY: 5}, 1000)
	if clear.Kind != Clear {
		t.Errorf("Evaluate(clear) = %+v, want Kind Clear", clear)
	}

	collision := eval.Evaluate(item, geom.Transform{TX: 0.5, TY: 0}, 1000)
	if collision.Kind != Collision {
		t.Errorf("Evaluate(overlap, upperBound=1000) = %+v, want Kind Collision", collision)
	}

	invalid := eval.Evaluate(item, geom.Transform{TX: 0.5, TY: 0}, 0)
	if invalid.Kind != Invalid {
		t.Errorf("Evaluate(overlap, upperBound=0) = %+v, want Kind Invalid", invalid)
	}
}

func TestLess(t *testing.T) {
	clear := SampleEval{Kind: Clear, Loss: 5}
	collision := SampleEval{Kind: Collision, Loss: 0}
	invalid := SampleEval{Kind: Invalid}

	if !Less(clear, collision) {
		t.Errorf("Less(Clear, Collision) = false, want true")
	}
	if !Less(collision, invalid) {
		t.Errorf("Less(Collision, Invalid) = false, want true")
	}
	if Less(invalid, clear) {
		t.Errorf("Less(Invalid, Clear) = true, want false")
	}
	if !Less(SampleEval{Kind: Clear, Loss: 1}, SampleEval{Kind: Clear, Loss: 2}) {
		t.Errorf("Less within same Kind should compare Loss")
	}
}
