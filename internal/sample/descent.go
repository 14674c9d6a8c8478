package sample

import (
	"math"
	"math/rand"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

// Axis is one of coordinate descent's five move directions (spec
// §4.7).
type Axis int

const (
	Horizontal Axis = iota
	Vertical
	ForwardDiagonal
	BackwardDiagonal
	RotationWiggle
)

func allAxes(continuousRotation bool) []Axis {
	axes := []Axis{Horizontal, Vertical, ForwardDiagonal, BackwardDiagonal}
	if continuousRotation {
		axes = append(axes, RotationWiggle)
	}
	return axes
}

// StepParams is one (initial, limit) pair for translation and rotation
// step sizes, expressed as a fraction of the item's minimum dimension
// for translation and in radians for rotation. Spec §4.7 fixes two
// named presets.
type StepParams struct {
	TransInit, TransLimit float64
	RotInit, RotLimit     float64
}

// PreRefineParams is spec §4.7's pre-refine preset (fractions of the
// item's min-dim for translation; degrees for rotation, converted to
// radians here).
var PreRefineParams = StepParams{
	TransInit: 0.25, TransLimit: 0.02,
	RotInit: 5 * math.Pi / 180, RotLimit: 1 * math.Pi / 180,
}

// FinalRefineParams is spec §4.7's final-refine preset.
var FinalRefineParams = StepParams{
	TransInit: 0.01, TransLimit: 0.001,
	RotInit: 0.5 * math.Pi / 180, RotLimit: 0.05 * math.Pi / 180,
}

// maxDescentEvals is spec §8's hard assertion: "the coordinate descent
// terminates in <=1000 evaluations for any item."
const maxDescentEvals = 1000

// CoordinateDescent runs spec §4.7's local refiner starting from
// (transform, eval), using params scaled by item.MinDim, against
// evaluator with an evaluation budget bounded by 1000 calls. Returns
// the refined (transform, eval) and the number of evaluator calls
// made.
func CoordinateDescent(rng *rand.Rand, item *model.Item, start geom.Transform, startEval SampleEval, evaluator Evaluator, params StepParams) (geom.Transform, SampleEval, int) {
	minDim := item.MinDim
	if minDim <= 0 {
		minDim = 1
	}
	sx := params.TransInit * minDim
	sy := params.TransInit * minDim
	sr := params.RotInit
	limX := params.TransLimit * minDim
	limY := params.TransLimit * minDim
	limR := params.RotLimit

	axes := allAxes(item.Rotation.IsContinuous())
	axis := axes[rng.Intn(len(axes))]

	cur := start
	curEval := startEval
	evals := 0

	hasRotation := len(axes) > 4
	for evals < maxDescentEvals {
		if allBelowLimit(sx, sy, sr, limX, limY, limR, hasRotation) {
			break
		}

		c1, c2 := candidates(cur, axis, sx, sy, sr)
		e1 := evaluator.Evaluate(item, c1, curEval.Loss)
		evals++
		e2 := evaluator.Evaluate(item, c2, curEval.Loss)
		evals++

		best, bestT := e1, c1
		if Less(e2, e1) {
			best, bestT = e2, c2
		}

		if Less(best, curEval) {
			cur = bestT
			curEval = best
			sx, sy, sr = grow(axis, sx, sy, sr)
		} else {
			sx, sy, sr = shrink(axis, sx, sy, sr)
			axis = axes[rng.Intn(len(axes))]
		}
	}

	return cur, curEval, evals
}

// allBelowLimit checks termination across whatever axes are active;
// hasRotation indicates whether a rotation axis is in play at all.
func allBelowLimit(sx, sy, sr, limX, limY, limR float64, hasRotation bool) bool {
	if sx > limX || sy > limY {
		return false
	}
	if hasRotation && sr > limR {
		return false
	}
	return true
}

func candidates(t geom.Transform, axis Axis, sx, sy, sr float64) (geom.Transform, geom.Transform) {
	switch axis {
	case Horizontal:
		return t.Translated(-sx, 0), t.Translated(sx, 0)
	case Vertical:
		return t.Translated(0, -sy), t.Translated(0, sy)
	case ForwardDiagonal:
		return t.Translated(-sx, -sy), t.Translated(sx, sy)
	case BackwardDiagonal:
		return t.Translated(-sx, sy), t.Translated(sx, -sy)
	default: // RotationWiggle
		return t.WithTheta(t.Theta - sr), t.WithTheta(t.Theta + sr)
	}
}

const (
	growFactor   = 1.1
	shrinkFactor = 0.5
)

func grow(axis Axis, sx, sy, sr float64) (float64, float64, float64) {
	switch axis {
	case Horizontal:
		return sx * growFactor, sy, sr
	case Vertical:
		return sx, sy * growFactor, sr
	case ForwardDiagonal, BackwardDiagonal:
		m := math.Sqrt(growFactor)
		return sx * m, sy * m, sr
	default:
		return sx, sy, sr * growFactor
	}
}

func shrink(axis Axis, sx, sy, sr float64) (float64, float64, float64) {
	switch axis {
	case Horizontal:
		return sx * shrinkFactor, sy, sr
	case Vertical:
		return sx, sy * shrinkFactor, sr
	case ForwardDiagonal, BackwardDiagonal:
		m := math.Sqrt(shrinkFactor)
		return sx * m, sy * m, sr
	default:
		return sx, sy, sr * shrinkFactor
	}
}
