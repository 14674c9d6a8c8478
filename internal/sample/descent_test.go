package sample

import (
	"math/rand"
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

// constEvaluator always scores the same loss regardless of transform,
// so coordinate descent never finds an improving candidate and must
// terminate purely by shrinking step sizes below their limits.
type constEvaluator struct{ loss float64 }

func (c constEvaluator) Evaluate(*model.Item, geom.Transform, float64) SampleEval {
	return SampleEval{Kind: Clear, Loss: c.loss}
}

func TestCoordinateDescentStaysUnder1000Evals(t *testing.T) {
	item := unitSquareItem(1)
	rng := rand.New(rand.NewSource(1))
	start := geom.Transform{TX: 5, TY: 5}
	startEval := SampleEval{Kind: Clear, Loss: 10}

	_, _, evals := CoordinateDescent(rng, item, start, startEval, constEvaluator{loss: 10}, PreRefineParams)
	if evals > maxDescentEvals {
		t.Errorf("CoordinateDescent made %d evaluator calls, want <= %d", evals, maxDescentEvals)
	}
	if evals == 0 {
		t.Errorf("CoordinateDescent made 0 evaluator calls, want at least one probe")
	}
}

// improvingEvaluator rewards moving toward a target point, so descent
// should converge rather than only shrink-to-limit.
type improvingEvaluator struct{ target geom.Point }

func (e improvingEvaluator) Evaluate(_ *model.Item, t geom.Transform, _ float64) SampleEval {
	d := geom.Dist(geom.Point{X: t.TX, Y: t.TY}, e.target)
	return SampleEval{Kind: Clear, Loss: d}
}

func TestCoordinateDescentImprovesTowardBetterTransform(t *testing.T) {
	item := unitSquareItem(1)
	rng := rand.New(rand.NewSource(2))
	start := geom.Transform{TX: 5, TY: 5}
	eval := improvingEvaluator{target: geom.Point{X: 0, Y: 0}}
	startEval := eval.Evaluate(item, start, 0)

	_, finalEval, evals := CoordinateDescent(rng, item, start, startEval, eval, FinalRefineParams)
	if evals == 0 || evals > maxDescentEvals {
		t.Fatalf("CoordinateDescent made %d evaluator calls, want within (0, %d]", evals, maxDescentEvals)
	}
	if !Less(finalEval, startEval) && finalEval.Loss != startEval.Loss {
		t.Errorf("final loss %v did not improve on (or match) start loss %v", finalEval.Loss, startEval.Loss)
	}
}
