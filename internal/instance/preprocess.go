package instance

import (
	"github.com/erlendvik/packfold/internal/geom"
)

// simplify reduces p's vertex count via Douglas-Peucker with the given
// perpendicular-distance tolerance, preserving the polygon's overall
// silhouette within that tolerance (spec §6: "polygon simplification
// tolerance"). Hand-built: no vertex-simplification routine surfaced
// anywhere in the retrieval pack's canvas usage, the same justified
// stdlib-only exception class as the hazard collector's quadtree and
// the surrogate's pole-of-inaccessibility search.
func simplify(p *geom.Polygon, tolerance float64) *geom.Polygon {
	if tolerance <= 0 || len(p.Vertices) <= 3 {
		return p
	}
	kept := douglasPeucker(p.Vertices, tolerance)
	if len(kept) < 3 {
		return p
	}
	return geom.NewPolygon(kept)
}

func douglasPeucker(pts []geom.Point, tolerance float64) []geom.Point {
	if len(pts) < 3 {
		return pts
	}
	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true
	dpRange(pts, 0, len(pts)-1, tolerance, keep)

	out := make([]geom.Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

func dpRange(pts []geom.Point, lo, hi int, tolerance float64, keep []bool) {
	if hi <= lo+1 {
		return
	}
	maxDist := 0.0
	maxIdx := -1
	for i := lo + 1; i < hi; i++ {
		d := perpendicularDistance(pts[i], pts[lo], pts[hi])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= tolerance || maxIdx < 0 {
		return
	}
	keep[maxIdx] = true
	dpRange(pts, lo, maxIdx, tolerance, keep)
	dpRange(pts, maxIdx, hi, tolerance, keep)
}

func perpendicularDistance(p, a, b geom.Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	length := abx*abx + aby*aby
	if length == 0 {
		return geom.Dist(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / length
	proj := geom.Point{X: a.X + t*abx, Y: a.Y + t*aby}
	return geom.Dist(p, proj)
}

// closeNarrowConcavities removes reflex vertices whose two incident
// edges form a concavity narrower than cutoffRatio · diameter, the
// preprocessing knob recovered from
// `original_source/src/config.rs`'s `narrow_concavity_cutoff_ratio`
// ("maximum distance between two vertices of a polygon to consider it
// a narrow concavity, which will be closed"): such a vertex is simply
// dropped, bridging its neighbors directly.
func closeNarrowConcavities(p *geom.Polygon, cutoffRatio float64) *geom.Polygon {
	if cutoffRatio <= 0 || len(p.Vertices) <= 3 {
		return p
	}
	cutoff := cutoffRatio * p.Diameter()

	vs := append([]geom.Point(nil), p.Vertices...)
	changed := true
	for changed && len(vs) > 3 {
		changed = false
		for i := range vs {
			prev := vs[(i-1+len(vs))%len(vs)]
			next := vs[(i+1)%len(vs)]
			if geom.Dist(prev, next) < cutoff && !isConvexVertex(prev, vs[i], next) {
				vs = append(vs[:i], vs[i+1:]...)
				changed = true
				break
			}
		}
	}
	if len(vs) < 3 {
		return p
	}
	return geom.NewPolygon(vs)
}

// isConvexVertex reports whether b is a convex (non-reflex) turn going
// a->b->c, assuming counter-clockwise winding.
func isConvexVertex(a, b, c geom.Point) bool {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	return cross >= 0
}

// Preprocess applies the enabled simplification and concavity-closing
// knobs to p, in the order simplify-then-close-concavities
// (simplification first so the concavity pass operates on the
// already-reduced vertex set). MinItemSeparation is not applied here.
func Preprocess(p *geom.Polygon, opts PreprocessOptions) *geom.Polygon {
	if opts.SimplifyTolerance != nil {
		p = simplify(p, *opts.SimplifyTolerance)
	}
	if opts.NarrowConcavityCutoffRatio != nil {
		p = closeNarrowConcavities(p, *opts.NarrowConcavityCutoffRatio)
	}
	return p
}
