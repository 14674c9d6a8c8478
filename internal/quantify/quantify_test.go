package quantify

import (
	"math"
	"testing"

	"github.com/erlendvik/packfold/internal/geom"
)

func squareAt(minX, minY, maxX, maxY float64) *geom.Surrogate {
	poly := geom.NewPolygon([]geom.Point{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY},
	})
	return geom.BuildSurrogate(poly)
}

func TestPolygonPolygonAlwaysStrictlyPositive(t *testing.T) {
	overlapping := PolygonPolygon(squareAt(0, 0, 2, 2), squareAt(1, 1, 3, 3))
	if overlapping <= 0 {
		t.Errorf("PolygonPolygon(overlapping) = %v, want strictly positive", overlapping)
	}

	disjoint := PolygonPolygon(squareAt(0, 0, 1, 1), squareAt(100, 100, 101, 101))
	if disjoint <= 0 {
		t.Errorf("PolygonPolygon(disjoint) = %v, want strictly positive (epsilon floor)", disjoint)
	}
}

func TestPolygonPolygonMoreOverlapIsMoreLoss(t *testing.T) {
	slight := PolygonPolygon(squareAt(0, 0, 2, 2), squareAt(1.9, 0, 3.9, 2))
	heavy := PolygonPolygon(squareAt(0, 0, 2, 2), squareAt(0.1, 0, 2.1, 2))
	if heavy <= slight {
		t.Errorf("PolygonPolygon(heavy overlap) = %v, want > PolygonPolygon(slight overlap) = %v", heavy, slight)
	}
}

func TestPolygonContainerPositiveMarginWhenFullyInside(t *testing.T) {
	s := squareAt(1, 1, 2, 2)
	container := geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	// Still strictly positive: PolygonContainer always includes the
	// small area*1e-4 "keep off the edge" term.
	loss := PolygonContainer(s, container)
	if loss <= 0 {
		t.Errorf("PolygonContainer(fully inside) = %v, want strictly positive margin term", loss)
	}
}

func TestPolygonContainerPenalizesDriftOutside(t *testing.T) {
	container := geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	touching := PolygonContainer(squareAt(9, 9, 11, 11), container)
	farOutside := PolygonContainer(squareAt(100, 100, 101, 101), container)
	if farOutside <= touching {
		t.Errorf("PolygonContainer(far outside) = %v, want > PolygonContainer(straddling edge) = %v", farOutside, touching)
	}
}

func TestOverlapProxySIMDMatchesScalar(t *testing.T) {
	a := squareAt(0, 0, 2, 2)
	b := squareAt(1, 1, 3, 3)
	eps := 0.01

	scalar := OverlapProxy(a, b, eps)
	simd := OverlapProxySIMD(a, b, eps)
	if math.Abs(scalar-simd) > 1e-9*math.Max(1, math.Abs(scalar)) {
		t.Errorf("OverlapProxySIMD = %v, want match OverlapProxy = %v", simd, scalar)
	}
}

func TestOverlapProxySIMDEmptyPolesIsZero(t *testing.T) {
	empty := &geom.Surrogate{}
	square := squareAt(0, 0, 1, 1)
	if got := OverlapProxySIMD(empty, square, 0.01); got != 0 {
		t.Errorf("OverlapProxySIMD(no poles) = %v, want 0", got)
	}
}
