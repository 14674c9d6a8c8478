// Package quantify turns collisions between item surrogates into
// strictly positive real losses (spec §4.1-§4.3): the overlap proxy,
// the polygon-polygon/polygon-container collision quantifier, the
// triangular pair matrix, and the collision tracker that maintains
// guided-local-search weights on top of it.
package quantify

import (
	"math"

	"github.com/erlendvik/packfold/internal/geom"
)

// OverlapProxy computes the smooth, strictly-positive ordering
// surrogate for the overlap between two pole sets (spec §4.1). It is
// not a geometric area: it is guaranteed finite and normal even for
// disjoint shapes, and used purely to rank candidate placements.
func OverlapProxy(a, b *geom.Surrogate, epsilon float64) float64 {
	return overlapProxyScalar(a.Poles, b.Poles, epsilon)
}

func overlapProxyScalar(polesA, polesB []geom.Pole, epsilon float64) float64 {
	var sum float64
	for _, p1 := range polesA {
		for _, p2 := range polesB {
			sum += math.Min(p1.Radius, p2.Radius) * decay(penetration(p1, p2), epsilon)
		}
	}
	return math.Pi * sum
}

// penetration returns r1+r2-dist(c1,c2): positive when the two discs
// overlap, negative (the "distant poles" case) otherwise.
func penetration(p1, p2 geom.Pole) float64 {
	return p1.Radius + p2.Radius - geom.Dist(p1.Center, p2.Center)
}

// decay replaces a negative penetration depth with a smooth asymptote
// so the overall function stays C1 at pd=epsilon and strictly positive
// everywhere, per spec §4.1's exact formula.
func decay(pd, epsilon float64) float64 {
	if pd >= epsilon {
		return pd
	}
	return epsilon * epsilon / (-pd + 2*epsilon)
}
