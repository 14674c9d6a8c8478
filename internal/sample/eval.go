// Package sample implements the evaluator, samplers, best-samples
// buffer, coordinate descent, and placement search of spec §4.5–§4.9:
// everything that scores and refines a candidate transform for one
// item against a layout.
package sample

import (
	"github.com/erlendvik/packfold/internal/cde"
	"github.com/erlendvik/packfold/internal/collector"
	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

// Kind discriminates a SampleEval's variant.
type Kind int

const (
	// Clear means the placement is feasible.
	Clear Kind = iota
	// Collision means the placement is infeasible but scored.
	Collision
	// Invalid means the evaluator's upper bound was exceeded.
	Invalid
)

// SampleEval is the evaluator's result: spec §4.5's total order is
// Clear < Collision < Invalid, and within a variant lower Loss is
// better.
type SampleEval struct {
	Kind Kind
	Loss float64
}

// Less reports whether a ranks strictly better than b under spec
// §4.5's total order.
func Less(a, b SampleEval) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Loss < b.Loss
}

// Evaluator scores a candidate transform for item against layout,
// short-circuiting once the cost would exceed upperBound.
type Evaluator interface {
	Evaluate(item *model.Item, transform geom.Transform, upperBound float64) SampleEval
}

// WeightFunc resolves the GLS weight for a colliding hazard, mirroring
// collector.WeightFunc without importing it into every call site.
type WeightFunc = collector.WeightFunc

// LBFEvaluator is the construction-time evaluator of spec §4.5: any
// collision makes a candidate Invalid; otherwise it scores
// bottom-left bias.
type LBFEvaluator struct {
	Tree      *cde.Engine
	Container geom.BBox
}

// Evaluate implements Evaluator. Weight is irrelevant during
// construction (no GLS state exists yet), so every hazard counts with
// weight 1 and the upper bound is effectively "zero hazards allowed."
func (e *LBFEvaluator) Evaluate(item *model.Item, transform geom.Transform, _ float64) SampleEval {
	sp := item.TransformedSurrogate(transform)
	res := collector.Collect(e.Tree, sp, e.Container, 0, func(cde.HazardID) float64 { return 1 }, 0)
	if res.Invalid {
		return SampleEval{Kind: Invalid}
	}
	poi := sp.POI.Center
	bbox := sp.BBox
	loss := 10*(poi.X+bbox.MinX) + 1*(poi.Y+bbox.MinY)
	return SampleEval{Kind: Clear, Loss: loss}
}

// SeparationEvaluator is the search-time evaluator of spec §4.5: it
// reloads the specialized hazard collector with the caller's current
// upper-bound loss.
type SeparationEvaluator struct {
	Tree      *cde.Engine
	Container geom.BBox
	Exclude   cde.HazardID
	Weight    WeightFunc
}

// Evaluate implements Evaluator.
func (e *SeparationEvaluator) Evaluate(item *model.Item, transform geom.Transform, upperBound float64) SampleEval {
	sp := item.TransformedSurrogate(transform)
	res := collector.Collect(e.Tree, sp, e.Container, e.Exclude, e.Weight, upperBound)
	if res.Invalid {
		return SampleEval{Kind: Invalid}
	}
	if len(res.Hazards) == 0 {
		return SampleEval{Kind: Clear, Loss: 0}
	}
	return SampleEval{Kind: Collision, Loss: res.WeightedLoss}
}
