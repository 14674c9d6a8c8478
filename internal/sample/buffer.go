package sample

import (
	"math"
	"sort"

	"github.com/erlendvik/packfold/internal/geom"
)

// entry is one buffered sample: a transform and its evaluation.
type entry struct {
	Transform geom.Transform
	Eval      SampleEval
}

// BestSamplesBuffer keeps the top-K evaluated placements sorted
// best-first with a minimum-distinctness rule (spec §4.6): at most one
// representative per "similarity class."
type BestSamplesBuffer struct {
	k            int
	uniqueThresh float64
	entries      []entry
}

// NewBestSamplesBuffer builds a buffer of capacity k with the given
// per-axis translation distinctness threshold (rotation distinctness
// is fixed at 1 degree per spec §4.6).
func NewBestSamplesBuffer(k int, uniqueThresh float64) *BestSamplesBuffer {
	return &BestSamplesBuffer{k: k, uniqueThresh: uniqueThresh}
}

const rotationDistinctThreshold = 1 * math.Pi / 180

// similar reports whether two transforms fall in the same
// similarity class: translations within uniqueThresh on each axis and
// rotations (mod 2π) within 1 degree.
func (b *BestSamplesBuffer) similar(a, c geom.Transform) bool {
	if math.Abs(a.TX-c.TX) >= b.uniqueThresh || math.Abs(a.TY-c.TY) >= b.uniqueThresh {
		return false
	}
	return angularDistance(a.Theta, c.Theta) < rotationDistinctThreshold
}

func angularDistance(a, c float64) float64 {
	const twoPi = 2 * math.Pi
	d := math.Mod(math.Abs(a-c), twoPi)
	if d > math.Pi {
		d = twoPi - d
	}
	return d
}

// Report inserts (transform, eval) per spec §4.6's rule: rejected if
// worse than the current Kth entry, rejected if any similar entry
// already dominates it, otherwise any entries it dominates are evicted
// and it is inserted at its sorted position.
func (b *BestSamplesBuffer) Report(transform geom.Transform, eval SampleEval) {
	if len(b.entries) >= b.k && !Less(eval, b.entries[len(b.entries)-1].Eval) {
		return
	}
	for _, e := range b.entries {
		if b.similar(transform, e.Transform) && !Less(eval, e.Eval) {
			return
		}
	}
	kept := b.entries[:0:0]
	for _, e := range b.entries {
		if b.similar(transform, e.Transform) && Less(eval, e.Eval) {
			continue
		}
		kept = append(kept, e)
	}
	kept = append(kept, entry{Transform: transform, Eval: eval})
	sort.Slice(kept, func(i, j int) bool { return Less(kept[i].Eval, kept[j].Eval) })
	if len(kept) > b.k {
		kept = kept[:b.k]
	}
	b.entries = kept
}

// Best returns the single best buffered sample, if any.
func (b *BestSamplesBuffer) Best() (geom.Transform, SampleEval, bool) {
	if len(b.entries) == 0 {
		return geom.Transform{}, SampleEval{}, false
	}
	return b.entries[0].Transform, b.entries[0].Eval, true
}

// All returns every buffered sample, best-first.
func (b *BestSamplesBuffer) All() []struct {
	Transform geom.Transform
	Eval      SampleEval
} {
	out := make([]struct {
		Transform geom.Transform
		Eval      SampleEval
	}, len(b.entries))
	for i, e := range b.entries {
		out[i].Transform = e.Transform
		out[i].Eval = e.Eval
	}
	return out
}

// Len returns the current number of buffered samples.
func (b *BestSamplesBuffer) Len() int { return len(b.entries) }
