package quantify

import (
	"math"
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
)

func TestOverlapProxyCommutative(t *testing.T) {
	square := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	tri := geom.NewPolygon([]geom.Point{{X: 1, Y: 1}, {X: 4, Y: 1}, {X: 1, Y: 4}})

	a := geom.BuildSurrogate(square)
	b := geom.BuildSurrogate(tri)

	forward := OverlapProxy(a, b, 0.01)
	backward := OverlapProxy(b, a, 0.01)

	if math.Abs(forward-backward) > 1e-9*math.Max(1, math.Abs(forward)) {
		t.Errorf("OverlapProxy(a,b) = %v, OverlapProxy(b,a) = %v, want equal within floating-point tolerance", forward, backward)
	}
}

func TestOverlapProxyDisjointIsPositiveAndFinite(t *testing.T) {
	near := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	far := geom.NewPolygon([]geom.Point{{X: 100, Y: 100}, {X: 101, Y: 100}, {X: 101, Y: 101}, {X: 100, Y: 101}})

	loss := OverlapProxy(geom.BuildSurrogate(near), geom.BuildSurrogate(far), 0.01)
	if loss <= 0 {
		t.Errorf("OverlapProxy(disjoint) = %v, want strictly positive", loss)
	}
}
