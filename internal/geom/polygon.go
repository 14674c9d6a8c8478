package geom

import (
	"math"
	"sort"

	"github.com/tdewolff/canvas"
)

// Polygon is a simple (non-self-intersecting) polygon given as an
// ordered, non-repeated vertex list.
type Polygon struct {
	Vertices []Point
}

// NewPolygon builds a Polygon from raw vertices, as read from an
// instance's JSON item definition.
func NewPolygon(vertices []Point) *Polygon {
	return &Polygon{Vertices: append([]Point(nil), vertices...)}
}

// edge returns the i-th edge as (from, to), wrapping around.
func (p *Polygon) edge(i int) (Point, Point) {
	n := len(p.Vertices)
	return p.Vertices[i], p.Vertices[(i+1)%n]
}

// NumEdges returns the number of edges (equal to the number of vertices
// for a closed simple polygon).
func (p *Polygon) NumEdges() int { return len(p.Vertices) }

// Area returns the signed area (positive for counter-clockwise winding)
// via the shoelace formula.
func (p *Polygon) Area() float64 {
	var sum float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a, b := p.Vertices[i], p.Vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// AbsArea returns the unsigned area.
func (p *Polygon) AbsArea() float64 { return math.Abs(p.Area()) }

// Centroid returns the polygon's area centroid.
func (p *Polygon) Centroid() Point {
	var cx, cy, a float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		v0, v1 := p.Vertices[i], p.Vertices[(i+1)%n]
		cross := v0.X*v1.Y - v1.X*v0.Y
		a += cross
		cx += (v0.X + v1.X) * cross
		cy += (v0.Y + v1.Y) * cross
	}
	a /= 2
	if a == 0 {
		return p.BBox().Center()
	}
	return Point{X: cx / (6 * a), Y: cy / (6 * a)}
}

// BBox returns the axis-aligned bounding box.
func (p *Polygon) BBox() BBox {
	b := EmptyBBox()
	for _, v := range p.Vertices {
		b = b.Extend(v)
	}
	return b
}

// Diameter returns the maximum pairwise vertex distance, used throughout
// as the item's "diam" (epsilon derivation in §4.2, LBF ordering in §4.10).
func (p *Polygon) Diameter() float64 {
	var maxD float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := Dist(p.Vertices[i], p.Vertices[j]); d > maxD {
				maxD = d
			}
		}
	}
	return maxD
}

// MinDimension returns the shorter side of the polygon's bounding box,
// used as the reference length for step-size and distinctness fractions
// (§4.7, §4.9).
func (p *Polygon) MinDimension() float64 {
	b := p.BBox()
	return math.Min(b.Width(), b.Height())
}

// Contains reports whether pt lies inside the polygon using a standard
// even-odd ray-casting test.
func (p *Polygon) Contains(pt Point) bool {
	inside := false
	n := len(p.Vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p.Vertices[i], p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// DistanceToBoundary returns the signed distance from pt to the nearest
// edge: positive while pt is inside the polygon, 0 on the boundary, and
// a value clamped to 0 while pt is outside (outside points are not
// candidates for pole placement).
func (p *Polygon) DistanceToBoundary(pt Point) float64 {
	if !p.Contains(pt) {
		return 0
	}
	minD := math.Inf(1)
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a, b := p.edge(i)
		if d := distToSegment(pt, a, b); d < minD {
			minD = d
		}
	}
	return minD
}

func distToSegment(p, a, b Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return Dist(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	t = math.Max(0, math.Min(1, t))
	proj := Point{X: a.X + t*abx, Y: a.Y + t*aby}
	return Dist(p, proj)
}

// Transformed returns a copy of p with every vertex mapped through t.
func (p *Polygon) Transformed(t Transform) *Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = t.Apply(v)
	}
	return &Polygon{Vertices: out}
}

// ConvexHull returns the convex hull via Andrew's monotone chain
// algorithm, in counter-clockwise order.
func (p *Polygon) ConvexHull() *Polygon {
	pts := append([]Point(nil), p.Vertices...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	cross := func(o, a, b Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	n := len(pts)
	hull := make([]Point, 0, 2*n)
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	return &Polygon{Vertices: hull}
}

// ConvexHullArea returns the unsigned area of the convex hull, used
// throughout as the "ch" penalty term of §4.2 and the LBF ordering key
// of §4.10.
func (p *Polygon) ConvexHullArea() float64 {
	return p.ConvexHull().AbsArea()
}

// ToPath converts the polygon to a canvas.Path for SVG export.
func (p *Polygon) ToPath() *canvas.Path {
	path := &canvas.Path{}
	if len(p.Vertices) == 0 {
		return path
	}
	path.MoveTo(p.Vertices[0].X, p.Vertices[0].Y)
	for _, v := range p.Vertices[1:] {
		path.LineTo(v.X, v.Y)
	}
	path.Close()
	return path
}
