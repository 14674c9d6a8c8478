package geom

import "math"

// Pole is one disc inscribed in an item's polygon: its center and the
// radius of the largest circle centered there that still fits inside
// the polygon. The overlap proxy (quantify/overlap_proxy.go) treats an
// item as the union of its poles' discs.
type Pole struct {
	Center Point
	Radius float64
}

// PoleTier is one entry of the tiered pole-count table (spec §4.1/§6):
// once the cumulative area covered by poles already placed reaches
// Coverage, the builder is allowed to stop adding poles once it has
// placed at least Count of them.
type PoleTier struct {
	Count    int
	Coverage float64
}

// DefaultPoleTiers is the tiered coverage table spec §6 mandates:
// try for up to 64 poles, but stop early at 16 once 80% of the
// polygon's area is covered by pole discs, or at 8 once 90% is
// covered.
var DefaultPoleTiers = []PoleTier{
	{Count: 64, Coverage: 0.0},
	{Count: 16, Coverage: 0.8},
	{Count: 8, Coverage: 0.9},
}

// Surrogate is the cached per-item approximation the quantifier and
// collector consume instead of re-walking the polygon on every
// candidate placement: a set of poles, the polygon's convex hull area,
// bounding box, single dominant pole of inaccessibility, and diameter.
type Surrogate struct {
	Polygon        *Polygon
	Poles          []Pole
	ConvexHullArea float64
	BBox           BBox
	POI            Pole
	Diameter       float64
}

// BuildSurrogate computes a Surrogate for p using the default pole
// tiers.
func BuildSurrogate(p *Polygon) *Surrogate {
	return BuildSurrogateWithTiers(p, DefaultPoleTiers)
}

// BuildSurrogateWithTiers computes a Surrogate for p, stopping pole
// placement per the given tiered coverage table.
func BuildSurrogateWithTiers(p *Polygon, tiers []PoleTier) *Surrogate {
	bbox := p.BBox()
	area := p.AbsArea()
	poi := poleOfInaccessibility(p, bbox, area*1e-4)

	poles := []Pole{poi}
	coveredArea := poleCoverageArea(poi)

	maxCount := tiers[0].Count
	for _, t := range tiers {
		maxCount = t.Count
		if area > 0 && coveredArea/area >= t.Coverage {
			break
		}
	}

	occupied := make([]Pole, 0, maxCount)
	occupied = append(occupied, poi)

	const gridN = 24
	cellW := bbox.Width() / gridN
	cellH := bbox.Height() / gridN
	for len(poles) < maxCount {
		best := Pole{Radius: -1}
		for iy := 0; iy < gridN; iy++ {
			for ix := 0; ix < gridN; ix++ {
				cand := Point{
					X: bbox.MinX + (float64(ix)+0.5)*cellW,
					Y: bbox.MinY + (float64(iy)+0.5)*cellH,
				}
				if !p.Contains(cand) {
					continue
				}
				r := p.DistanceToBoundary(cand)
				r = clampByOccupied(cand, r, occupied)
				if r > best.Radius {
					best = Pole{Center: cand, Radius: r}
				}
			}
		}
		if best.Radius <= 0 {
			break
		}
		refined := refinePole(p, best, math.Min(cellW, cellH), occupied)
		poles = append(poles, refined)
		occupied = append(occupied, refined)
		coveredArea += poleCoverageArea(refined)

		for _, t := range tiers {
			if area > 0 && coveredArea/area >= t.Coverage && len(poles) >= t.Count {
				maxCount = len(poles)
			}
		}
		if len(poles) >= maxCount {
			break
		}
	}

	return &Surrogate{
		Polygon:        p,
		Poles:          poles,
		ConvexHullArea: p.ConvexHullArea(),
		BBox:           bbox,
		POI:            poi,
		Diameter:       p.Diameter(),
	}
}

func poleCoverageArea(p Pole) float64 {
	return math.Pi * p.Radius * p.Radius
}

// clampByOccupied shrinks r so the disc at cand does not grossly
// overlap any already-placed pole disc, keeping the surrogate's poles
// a reasonably distinct cover of the polygon rather than a pile of
// near-duplicates at the dominant pole.
func clampByOccupied(cand Point, r float64, occupied []Pole) float64 {
	for _, o := range occupied {
		d := Dist(cand, o.Center)
		if d < o.Radius {
			return 0
		}
		if free := d - o.Radius; free < r {
			r = free
		}
	}
	return r
}

// refinePole performs a small local hill-climb around seed to tighten
// the disc radius beyond the grid resolution, using a shrinking step
// pattern search (8-neighbor move set).
func refinePole(p *Polygon, seed Pole, step float64, occupied []Pole) Pole {
	best := seed
	for step > 1e-6*math.Max(1, p.Diameter()) {
		improved := false
		for _, d := range [][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
			cand := Point{X: best.Center.X + d[0]*step, Y: best.Center.Y + d[1]*step}
			if !p.Contains(cand) {
				continue
			}
			r := p.DistanceToBoundary(cand)
			r = clampByOccupied(cand, r, withoutLast(occupied, seed))
			if r > best.Radius {
				best = Pole{Center: cand, Radius: r}
				improved = true
			}
		}
		if !improved {
			step /= 2
		}
	}
	return best
}

func withoutLast(occupied []Pole, exclude Pole) []Pole {
	out := make([]Pole, 0, len(occupied))
	for _, o := range occupied {
		if o == exclude {
			continue
		}
		out = append(out, o)
	}
	return out
}

// poleOfInaccessibility locates the single point of maximum distance
// to the polygon boundary via a polylabel-style best-first quadtree
// search: repeatedly subdivide the highest-potential cell (current
// distance + cell's half-diagonal, an upper bound on any point inside
// it) until the precision threshold is reached.
func poleOfInaccessibility(p *Polygon, bbox BBox, precision float64) Pole {
	if precision <= 0 {
		precision = 1e-3
	}
	cellSize := math.Min(bbox.Width(), bbox.Height())
	if cellSize <= 0 {
		return Pole{Center: bbox.Center(), Radius: 0}
	}
	h := cellSize / 2

	type cell struct {
		c   Point
		h   float64
		d   float64
		max float64
	}
	newCell := func(cx, cy, h float64) cell {
		center := Point{X: cx, Y: cy}
		d := p.DistanceToBoundary(center)
		return cell{c: center, h: h, d: d, max: d + h*math.Sqrt2}
	}

	centroidCell := func() cell {
		c := p.Centroid()
		return newCell(c.X, c.Y, 0)
	}

	best := newCell(bbox.Center().X, bbox.Center().Y, h)
	if cc := centroidCell(); cc.d > best.d {
		best = cc
	}

	queue := []cell{}
	for x := bbox.MinX; x < bbox.MaxX; x += cellSize {
		for y := bbox.MinY; y < bbox.MaxY; y += cellSize {
			cl := newCell(x+h, y+h, h)
			queue = append(queue, cl)
			if cl.d > best.d {
				best = cl
			}
		}
	}

	for len(queue) > 0 {
		idx := 0
		for i, c := range queue {
			if c.max > queue[idx].max {
				idx = i
			}
		}
		cur := queue[idx]
		queue = append(queue[:idx], queue[idx+1:]...)

		if cur.max-best.d <= precision {
			continue
		}

		nh := cur.h / 2
		if nh < precision {
			continue
		}
		for _, off := range [][2]float64{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
			cl := newCell(cur.c.X+off[0]*nh, cur.c.Y+off[1]*nh, nh)
			if cl.d > best.d {
				best = cl
			}
			if cl.max > best.d+precision {
				queue = append(queue, cl)
			}
		}
	}

	return Pole{Center: best.c, Radius: best.d}
}
