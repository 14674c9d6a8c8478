package quantify

import (
	"math"

	"github.com/erlendvik/packfold/internal/geom"
)

// penalty is the shared shape-size penalty term of spec §4.2:
// sqrt(sqrt(chA*chB)), i.e. the fourth root of the product of two
// convex-hull areas.
func penalty(chA, chB float64) float64 {
	return math.Sqrt(math.Sqrt(chA * chB))
}

// PolygonPolygon returns the collision loss between two item
// surrogates per spec §4.2: epsilon is derived from the larger
// diameter, the overlap proxy is combined with an additive epsilon^2
// floor under a square root, and scaled by the convex-hull penalty.
// The result is always strictly positive.
func PolygonPolygon(a, b *geom.Surrogate) float64 {
	eps := math.Max(a.Diameter, b.Diameter) * 0.01
	proxy := OverlapProxy(a, b, eps)
	return math.Sqrt(proxy+eps*eps) * penalty(a.ConvexHullArea, b.ConvexHullArea)
}

// PolygonContainer returns the collision loss between an item
// surrogate and the container rectangle per spec §4.2. When the
// item's bbox intersects the container's, the loss rewards reducing
// the area outside the container; when it has drifted entirely
// outside, it additionally pulls the item back toward the container
// center.
func PolygonContainer(s *geom.Surrogate, container geom.BBox) float64 {
	var base float64
	bbox := s.BBox
	if bbox.Intersects(container) {
		inter := bbox.IntersectionArea(container)
		base = (bbox.Area() - inter) + 1e-4*bbox.Area()
	} else {
		base = bbox.Area() + geom.Dist(bbox.Center(), container.Center())
	}
	return base * 2 * penalty(s.ConvexHullArea, s.ConvexHullArea)
}
