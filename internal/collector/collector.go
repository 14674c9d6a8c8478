package collector

import (
	"math"

	"github.com/erlendvik/packfold/internal/cde"
	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/quantify"
)

// WeightFunc resolves the current GLS weight for a colliding hazard id
// (cde.ExteriorHazard for the container, or another item's hazard id
// otherwise). Supplied by the caller so the collector stays decoupled
// from the collision tracker's storage (spec §9 non-owning
// back-references).
type WeightFunc func(id cde.HazardID) float64

// Result is the outcome of one Collect call: either early-terminated
// (Invalid), or the accumulated weighted loss over every detected
// hazard (0 when none were found).
type Result struct {
	Invalid      bool
	WeightedLoss float64
	Hazards      []cde.HazardID
}

// Collect runs the three-stage pipeline of spec §4.4 against tree: a
// candidate surrogate (the shape being evaluated at some transform),
// the container bbox it must stay inside, the id to treat as absent
// (the item currently being moved, or 0 during LBF construction where
// no such id exists), a weight lookup, and the caller's loss bound.
// It returns early once the running weighted-loss sum exceeds
// lossBound, without completing the remaining stages.
func Collect(tree *cde.Engine, candidate *geom.Surrogate, container geom.BBox, exclude cde.HazardID, weight WeightFunc, lossBound float64) Result {
	c := &collectState{
		tree:      tree,
		candidate: candidate,
		container: container,
		exclude:   exclude,
		weight:    weight,
		lossBound: lossBound,
		detected:  make(map[cde.HazardID]bool),
	}

	if c.checkContainer() {
		return Result{Invalid: true}
	}
	if c.poleStage() {
		return Result{Invalid: true}
	}
	if c.edgeStage() {
		return Result{Invalid: true}
	}
	if c.containmentStage() {
		return Result{Invalid: true}
	}

	ids := make([]cde.HazardID, 0, len(c.detected))
	for id := range c.detected {
		ids = append(ids, id)
	}
	return Result{WeightedLoss: c.running, Hazards: ids}
}

type collectState struct {
	tree      *cde.Engine
	candidate *geom.Surrogate
	container geom.BBox
	exclude   cde.HazardID
	weight    WeightFunc
	lossBound float64

	detected map[cde.HazardID]bool
	running  float64
}

// checkContainer quantifies the candidate against the container bbox
// directly (the exterior is not a quadtree entry; see cde.Hazard doc).
func (c *collectState) checkContainer() (terminate bool) {
	if fullyInside(c.candidate.BBox, c.container) {
		return false
	}
	loss := quantify.PolygonContainer(c.candidate, c.container)
	c.detected[cde.ExteriorHazard] = true
	c.running += loss * c.weight(cde.ExteriorHazard)
	return c.running > c.lossBound
}

func fullyInside(inner, outer geom.BBox) bool {
	return inner.MinX >= outer.MinX && inner.MinY >= outer.MinY &&
		inner.MaxX <= outer.MaxX && inner.MaxY <= outer.MaxY
}

// poleStage iterates the candidate's inscribed poles, querying the
// quadtree around each and accumulating weighted loss; it stops once
// cumulative pole area exceeds 50% of the shape's own area (spec §4.4
// stage 1).
func (c *collectState) poleStage() (terminate bool) {
	shapeArea := c.candidate.Polygon.AbsArea()
	var cumArea float64
	for _, pole := range c.candidate.Poles {
		q := geom.BBox{
			MinX: pole.Center.X - pole.Radius, MinY: pole.Center.Y - pole.Radius,
			MaxX: pole.Center.X + pole.Radius, MaxY: pole.Center.Y + pole.Radius,
		}
		if c.absorb(c.tree.QueryBBox(q, c.exclude)) {
			return true
		}
		cumArea += math.Pi * pole.Radius * pole.Radius
		if shapeArea > 0 && cumArea/shapeArea > 0.5 {
			break
		}
	}
	return false
}

// edgeStage walks the candidate polygon's edges in bit-reversal order
// over vertex indices, querying the quadtree around each edge segment
// (spec §4.4 stage 2).
func (c *collectState) edgeStage() (terminate bool) {
	verts := c.candidate.Polygon.Vertices
	n := len(verts)
	if n == 0 {
		return false
	}
	for _, i := range BitReversalOrder(n) {
		a, b := verts[i], verts[(i+1)%n]
		q := geom.BBox{
			MinX: math.Min(a.X, b.X), MinY: math.Min(a.Y, b.Y),
			MaxX: math.Max(a.X, b.X), MaxY: math.Max(a.Y, b.Y),
		}
		if c.absorb(c.tree.QueryBBox(q, c.exclude)) {
			return true
		}
	}
	return false
}

// containmentStage scans hazards bbox-overlapping the candidate's own
// bbox whose presence is Partial and not yet detected, and runs an
// exact containment test to catch hazards whose edges never crossed
// the pole/edge sweep region but whose body is fully nested inside (or
// around) the candidate (spec §4.4 stage 3).
func (c *collectState) containmentStage() (terminate bool) {
	candidates := c.tree.QueryBBox(c.candidate.BBox, c.exclude)
	for _, h := range candidates {
		if c.detected[h.ID] {
			continue
		}
		if c.tree.Presence(h.ID, c.candidate.BBox) != cde.PresencePartial {
			continue
		}
		if !c.candidate.Polygon.Contains(h.Surrogate.Polygon.Centroid()) &&
			!h.Surrogate.Polygon.Contains(c.candidate.Polygon.Centroid()) {
			continue
		}
		if c.record(h) {
			return true
		}
	}
	return false
}

func (c *collectState) absorb(hazards []cde.Hazard) (terminate bool) {
	for _, h := range hazards {
		if c.detected[h.ID] {
			continue
		}
		if c.record(h) {
			return true
		}
	}
	return false
}

func (c *collectState) record(h cde.Hazard) (terminate bool) {
	c.detected[h.ID] = true
	loss := quantify.PolygonPolygon(c.candidate, h.Surrogate)
	c.running += loss * c.weight(h.ID)
	return c.running > c.lossBound
}
