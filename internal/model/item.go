// Package model holds the core data types spec §3 defines: the
// immutable Item template, a Placement (item id + decomposed
// transform), and the opaque PlacementKey used to address a placement
// within a Layout across moves.
package model

import (
	"math"

	"github.com/erlendvik/packfold/internal/geom"
)

// RotationPolicy describes which orientations an item is allowed to
// take.
type RotationPolicy struct {
	kind    rotationKind
	angles  []float64
	samples int
}

type rotationKind int

const (
	rotationFixed rotationKind = iota
	rotationDiscrete
	rotationContinuous
)

// FixedRotation returns a policy that forbids rotation (item stays at θ=0).
func FixedRotation() RotationPolicy {
	return RotationPolicy{kind: rotationFixed}
}

// DiscreteRotation returns a policy admitting exactly the given angles
// (radians).
func DiscreteRotation(angles []float64) RotationPolicy {
	return RotationPolicy{kind: rotationDiscrete, angles: append([]float64(nil), angles...)}
}

// ContinuousRotation returns a policy admitting any angle in [0, 2π),
// discretized into samples evenly spaced angles for sampling purposes
// (spec §4.8: "continuous uses 16 evenly spaced angles").
func ContinuousRotation(samples int) RotationPolicy {
	if samples <= 0 {
		samples = 16
	}
	return RotationPolicy{kind: rotationContinuous, samples: samples}
}

// IsContinuous reports whether rotation-wiggle descent is admissible
// for this policy (spec §4.7: "rotation is enabled only if the item
// allows continuous rotation").
func (r RotationPolicy) IsContinuous() bool { return r.kind == rotationContinuous }

// IsFixed reports whether the item may not rotate at all.
func (r RotationPolicy) IsFixed() bool { return r.kind == rotationFixed }

// Angles returns the discretized angle set consumed by the uniform
// sampler: the policy's own set if discrete, 16 (or configured)
// evenly-spaced samples if continuous, or {0} if fixed.
func (r RotationPolicy) Angles() []float64 {
	switch r.kind {
	case rotationFixed:
		return []float64{0}
	case rotationDiscrete:
		return r.angles
	default:
		n := r.samples
		out := make([]float64, n)
		for i := range out {
			out[i] = 2 * math.Pi * float64(i) / float64(n)
		}
		return out
	}
}

// SnapToFeasible returns the nearest angle this policy admits to theta
// (spec §4.8 "snap-to-feasible helper"). Continuous policies admit every
// angle, so they return theta normalized to [0, 2π).
func (r RotationPolicy) SnapToFeasible(theta float64) float64 {
	if r.kind == rotationContinuous {
		return normalizeAngle(theta)
	}
	theta = normalizeAngle(theta)
	best := 0.0
	bestDiff := math.Inf(1)
	for _, a := range r.Angles() {
		d := angularDiff(theta, a)
		if d < bestDiff {
			bestDiff = d
			best = a
		}
	}
	return best
}

func normalizeAngle(theta float64) float64 {
	const twoPi = 2 * math.Pi
	theta = math.Mod(theta, twoPi)
	if theta < 0 {
		theta += twoPi
	}
	return theta
}

func angularDiff(a, b float64) float64 {
	d := math.Abs(normalizeAngle(a) - normalizeAngle(b))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// ItemID identifies an item template within an instance.
type ItemID int

// Item is an immutable polygon template: its shape (with cached
// surrogate), size metadata, rotation policy, and demand quantity.
type Item struct {
	ID        ItemID
	Name      string
	Shape     *geom.Polygon
	Surrogate *geom.Surrogate
	MinDim    float64
	Diameter  float64
	Rotation  RotationPolicy
	Quantity  int
}

// NewItem builds an Item from a polygon and precomputes its surrogate,
// diameter, and minimum dimension once at load time (spec §3: "cached
// surrogate").
func NewItem(id ItemID, name string, shape *geom.Polygon, rotation RotationPolicy, quantity int) *Item {
	return &Item{
		ID:        id,
		Name:      name,
		Shape:     shape,
		Surrogate: geom.BuildSurrogate(shape),
		MinDim:    shape.MinDimension(),
		Diameter:  shape.Diameter(),
		Rotation:  rotation,
		Quantity:  quantity,
	}
}

// ConvexHullArea returns the item's cached convex-hull area, used by
// the LBF ordering key and the disruption cutoff (spec §4.10, §4.12a).
func (it *Item) ConvexHullArea() float64 { return it.Surrogate.ConvexHullArea }

// TransformedSurrogate returns the item's surrogate poles and POI
// mapped through t, used by the overlap proxy and hazard collector
// without re-deriving the pole set from the raw polygon on every
// candidate placement.
func (it *Item) TransformedSurrogate(t geom.Transform) *geom.Surrogate {
	poles := make([]geom.Pole, len(it.Surrogate.Poles))
	for i, p := range it.Surrogate.Poles {
		poles[i] = geom.Pole{Center: t.Apply(p.Center), Radius: p.Radius}
	}
	return &geom.Surrogate{
		Polygon:        it.Shape.Transformed(t),
		Poles:          poles,
		ConvexHullArea: it.Surrogate.ConvexHullArea,
		BBox:           it.Shape.Transformed(t).BBox(),
		POI:            geom.Pole{Center: t.Apply(it.Surrogate.POI.Center), Radius: it.Surrogate.POI.Radius},
		Diameter:       it.Surrogate.Diameter,
	}
}
