package sample

import (
	"math"
	"math/rand"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

// Config is the sample counts spec §4.9 and §6 fix:
// (n_container, n_focused, n_coord_descents).
type Config struct {
	NContainer     int
	NFocused       int
	NCoordDescents int
}

// DefaultConfig matches spec §6's exploration defaults: "50 container
// / 25 focused samples, 3 coord descents."
var DefaultConfig = Config{NContainer: 50, NFocused: 25, NCoordDescents: 3}

// Reference is an optional existing placement to search around (spec
// §4.9 step 2); nil when none is available (LBF construction).
type Reference struct {
	Transform geom.Transform
	BBox      geom.BBox
}

// Search runs spec §4.9's placement search and returns the best sample
// found (after a final coordinate-descent refinement) and the total
// number of evaluator calls made.
func Search(rng *rand.Rand, item *model.Item, container geom.BBox, reference *Reference, evaluator Evaluator, cfg Config) (geom.Transform, SampleEval, int) {
	uniqueThresh := 0.05 * item.MinDim
	buf := NewBestSamplesBuffer(cfg.NCoordDescents, uniqueThresh)
	evals := 0

	if reference != nil {
		refEval := evaluator.Evaluate(item, reference.Transform, math.Inf(1))
		evals++
		buf.Report(reference.Transform, refEval)

		focusedBBox := FocusedBBox(reference.BBox, container, item.Diameter)
		if s, ok := NewUniformBBoxSampler(item, focusedBBox); ok {
			for i := 0; i < cfg.NFocused; i++ {
				t := s.Sample(rng)
				e := evaluator.Evaluate(item, t, worstLoss(buf))
				evals++
				buf.Report(t, e)
			}
		}
	}

	if s, ok := NewUniformBBoxSampler(item, container); ok {
		for i := 0; i < cfg.NContainer; i++ {
			t := s.Sample(rng)
			e := evaluator.Evaluate(item, t, worstLoss(buf))
			evals++
			buf.Report(t, e)
		}
	}

	for _, entry := range buf.All() {
		refined, refinedEval, n := CoordinateDescent(rng, item, entry.Transform, entry.Eval, evaluator, PreRefineParams)
		evals += n
		buf.Report(refined, refinedEval)
	}

	best, bestEval, ok := buf.Best()
	if !ok {
		return geom.Transform{}, SampleEval{Kind: Invalid}, evals
	}

	finalT, finalEval, n := CoordinateDescent(rng, item, best, bestEval, evaluator, FinalRefineParams)
	evals += n
	return finalT, finalEval, evals
}

func worstLoss(buf *BestSamplesBuffer) float64 {
	if buf.Len() == 0 {
		return math.Inf(1)
	}
	entries := buf.All()
	return entries[len(entries)-1].Eval.Loss
}
