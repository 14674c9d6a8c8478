package sample

import (
	"math/rand"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

type rotationRange struct {
	angle    float64
	xLo, xHi float64
	yLo, yHi float64
}

// UniformBBoxSampler draws uniform translations (and a uniform choice
// of admissible rotation) within a sample bounding box, intersected
// with the container bbox shrunk by the rotated item's own extent at
// each candidate angle (spec §4.8).
type UniformBBoxSampler struct {
	ranges []rotationRange
}

// NewUniformBBoxSampler builds a sampler for item within sampleBBox
// (already intersected with the container's own bbox by the caller).
// It returns (nil, false) iff no rotation admits a non-empty
// translation range, exactly as spec §4.8's boundary behavior
// requires.
func NewUniformBBoxSampler(item *model.Item, sampleBBox geom.BBox) (*UniformBBoxSampler, bool) {
	var ranges []rotationRange
	for _, angle := range item.Rotation.Angles() {
		rotated := item.Shape.Transformed(geom.Identity().WithTheta(angle)).BBox()
		xLo := sampleBBox.MinX - rotated.MinX
		xHi := sampleBBox.MaxX - rotated.MaxX
		yLo := sampleBBox.MinY - rotated.MinY
		yHi := sampleBBox.MaxY - rotated.MaxY
		if xLo > xHi || yLo > yHi {
			continue
		}
		ranges = append(ranges, rotationRange{angle: angle, xLo: xLo, xHi: xHi, yLo: yLo, yHi: yHi})
	}
	if len(ranges) == 0 {
		return nil, false
	}
	return &UniformBBoxSampler{ranges: ranges}, true
}

// Sample draws a uniformly random admissible transform.
func (s *UniformBBoxSampler) Sample(rng *rand.Rand) geom.Transform {
	r := s.ranges[rng.Intn(len(s.ranges))]
	tx := uniform(rng, r.xLo, r.xHi)
	ty := uniform(rng, r.yLo, r.yHi)
	return geom.Transform{Theta: r.angle, TX: tx, TY: ty}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// FocusedBBox derives a sample bounding box centered on a reference
// placement's bounding box, inset to the container so the focused
// sampler of spec §4.9 step 2 stays biased toward the reference item's
// neighborhood without exceeding the container.
func FocusedBBox(reference geom.BBox, container geom.BBox, radius float64) geom.BBox {
	q := geom.BBox{
		MinX: reference.MinX - radius, MinY: reference.MinY - radius,
		MaxX: reference.MaxX + radius, MaxY: reference.MaxY + radius,
	}
	return geom.BBox{
		MinX: max64(q.MinX, container.MinX), MinY: max64(q.MinY, container.MinY),
		MaxX: min64(q.MaxX, container.MaxX), MaxY: min64(q.MaxY, container.MaxY),
	}
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
