package quantify

import (
	"math"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/erlendvik/packfold/internal/geom"
)

// OverlapProxySIMD computes the same value as OverlapProxy but
// vectorizes the inner pole-pair loop with go-highway: for each pole
// of a, the full pole set of b is processed in SIMD lanes. Intended
// for surrogates with large pole counts (the 64-pole tier of the
// tiered coverage table), where the scalar double loop dominates the
// hazard collector's pole pre-check.
func OverlapProxySIMD(a, b *geom.Surrogate, epsilon float64) float64 {
	if len(a.Poles) == 0 || len(b.Poles) == 0 {
		return 0
	}
	bcx := make([]float64, len(b.Poles))
	bcy := make([]float64, len(b.Poles))
	br := make([]float64, len(b.Poles))
	for i, p := range b.Poles {
		bcx[i] = p.Center.X
		bcy[i] = p.Center.Y
		br[i] = p.Radius
	}

	var total float64
	for _, pa := range a.Poles {
		total += rowSum(pa, bcx, bcy, br, epsilon)
	}
	return math.Pi * total
}

// rowSum accumulates min(ra,rb)*decay(pd,eps) over one pole pa against
// the whole SOA pole set (bcx,bcy,br) using SIMD lanes, with a scalar
// tail for the remainder under a full vector width.
func rowSum(pa geom.Pole, bcx, bcy, br []float64, epsilon float64) float64 {
	n := len(bcx)
	ax := hwy.Set(pa.Center.X)
	ay := hwy.Set(pa.Center.Y)
	ar := hwy.Set(pa.Radius)
	epsV := hwy.Set(epsilon)
	twoEpsV := hwy.Set(2 * epsilon)
	eps2V := hwy.Set(epsilon * epsilon)

	var total float64
	hwy.ProcessWithTail[float64](n, func(offset int) {
		bx := hwy.Load(bcx[offset:])
		by := hwy.Load(bcy[offset:])
		br0 := hwy.Load(br[offset:])

		dx := hwy.Sub(ax, bx)
		dy := hwy.Sub(ay, by)
		distSq := hwy.FMA(dx, dx, hwy.Mul(dy, dy))
		dist := hwy.Sqrt(distSq)

		sumR := hwy.Add(ar, br0)
		pd := hwy.Sub(sumR, dist)

		denom := hwy.Add(hwy.Sub(hwy.Zero[float64](), pd), twoEpsV)
		asymptote := hwy.Div(eps2V, denom)
		mask := hwy.GreaterThan(pd, epsV)
		decayed := hwy.IfThenElse(mask, pd, asymptote)

		minR := hwy.Min(ar, br0)
		contrib := hwy.Mul(minR, decayed)
		total += hwy.ReduceSum(contrib)
	}, func(offset, count int) {
		mask := hwy.TailMask[float64](count)
		bx := hwy.MaskLoad(mask, bcx[offset:])
		by := hwy.MaskLoad(mask, bcy[offset:])
		br0 := hwy.MaskLoad(mask, br[offset:])

		dx := hwy.Sub(ax, bx)
		dy := hwy.Sub(ay, by)
		distSq := hwy.FMA(dx, dx, hwy.Mul(dy, dy))
		dist := hwy.Sqrt(distSq)

		sumR := hwy.Add(ar, br0)
		pd := hwy.Sub(sumR, dist)

		denom := hwy.Add(hwy.Sub(hwy.Zero[float64](), pd), twoEpsV)
		asymptote := hwy.Div(eps2V, denom)
		gmask := hwy.GreaterThan(pd, epsV)
		decayed := hwy.IfThenElse(gmask, pd, asymptote)

		minR := hwy.Min(ar, br0)
		contrib := hwy.Mul(minR, decayed)
		contrib = hwy.IfThenElseZero(mask, contrib)
		total += hwy.ReduceSum(contrib)
	})
	return total
}
