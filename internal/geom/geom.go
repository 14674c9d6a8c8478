// Package geom adapts github.com/tdewolff/canvas's planar primitives to
// the vocabulary spec.md §3/§4 needs: polygons, bounding boxes, affine
// transforms, and the cached per-item "surrogate" (poles, convex-hull
// area, bbox, pole of inaccessibility) that the overlap proxy and
// collision quantifier consume.
package geom

import (
	"math"

	"github.com/tdewolff/canvas"
)

// Point is a 2D coordinate. Reusing canvas.Point keeps items
// interoperable with canvas.Path without a conversion layer at the SVG
// export boundary.
type Point = canvas.Point

// Sub returns a-b as a Point (canvas.Point has no vector subtraction
// method with this exact signature, so geom supplies the handful of
// vector ops the core math needs).
func Sub(a, b Point) Point { return Point{X: a.X - b.X, Y: a.Y - b.Y} }

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	d := Sub(a, b)
	return math.Hypot(d.X, d.Y)
}

// BBox is an axis-aligned bounding box.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBBox returns a degenerate bbox suitable as a fold seed.
func EmptyBBox() BBox {
	return BBox{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }
func (b BBox) Area() float64   { return b.Width() * b.Height() }

func (b BBox) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

func (b BBox) Translate(dx, dy float64) BBox {
	return BBox{b.MinX + dx, b.MinY + dy, b.MaxX + dx, b.MaxY + dy}
}

func (b BBox) Extend(p Point) BBox {
	return BBox{
		MinX: math.Min(b.MinX, p.X), MinY: math.Min(b.MinY, p.Y),
		MaxX: math.Max(b.MaxX, p.X), MaxY: math.Max(b.MaxY, p.Y),
	}
}

// Intersects reports whether b and o overlap (touching edges count as
// overlap, matching the quantifier's "bbox intersects" pre-check).
func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// IntersectionArea returns the area of the overlap between b and o, or 0
// if they don't intersect.
func (b BBox) IntersectionArea(o BBox) float64 {
	if !b.Intersects(o) {
		return 0
	}
	w := math.Min(b.MaxX, o.MaxX) - math.Max(b.MinX, o.MinX)
	h := math.Min(b.MaxY, o.MaxY) - math.Max(b.MinY, o.MinY)
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}

// Inside reports whether p is within the bbox (inclusive of the boundary).
func (b BBox) Inside(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Shrink returns a bbox inset by dx on the x-axis and dy on the y-axis,
// used to compute the admissible translation range for an item of a
// given footprint inside the container (uniform.go).
func (b BBox) Shrink(dx, dy float64) (BBox, bool) {
	shr := BBox{b.MinX + dx, b.MinY + dy, b.MaxX - dx, b.MaxY - dy}
	return shr, shr.MinX <= shr.MaxX && shr.MinY <= shr.MaxY
}

// Transform is a decomposed rigid transform: rotate by Theta about the
// origin, then translate by (TX, TY). This mirrors spec.md §3's
// Placement transform representation exactly, instead of a general
// affine matrix, so rotation and translation can be perturbed
// independently (coordinate descent's axis set, §4.7).
type Transform struct {
	Theta  float64
	TX, TY float64
}

// Identity returns the zero transform.
func Identity() Transform { return Transform{} }

// Apply maps p through the transform: rotate then translate.
func (t Transform) Apply(p Point) Point {
	sin, cos := math.Sincos(t.Theta)
	return Point{
		X: p.X*cos - p.Y*sin + t.TX,
		Y: p.X*sin + p.Y*cos + t.TY,
	}
}

// Matrix returns the equivalent canvas.Matrix, used only at the SVG
// export boundary where canvas.Path.Transform expects one.
func (t Transform) Matrix() canvas.Matrix {
	return canvas.Identity.Translate(t.TX, t.TY).Rotate(t.Theta * 180 / math.Pi)
}

// WithTheta returns a copy of t with Theta replaced.
func (t Transform) WithTheta(theta float64) Transform {
	t.Theta = theta
	return t
}

// Translated returns a copy of t with the translation offset by (dx, dy).
func (t Transform) Translated(dx, dy float64) Transform {
	t.TX += dx
	t.TY += dy
	return t
}
