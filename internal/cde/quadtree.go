package cde

import "github.com/erlendvik/packfold/internal/geom"

// DefaultMaxDepth and DefaultThreshold are the quadtree defaults spec
// §6 fixes: "CDE: quadtree depth 4, threshold 16".
const (
	DefaultMaxDepth  = 4
	DefaultThreshold = 16
)

type node struct {
	bbox     geom.BBox
	depth    int
	entries  []Hazard
	children [4]*node // nil until split; order: NW, NE, SW, SE
}

func (n *node) isLeaf() bool { return n.children[0] == nil }

// Engine is the quadtree-indexed hazard registry. It is not safe for
// concurrent use; each worker owns its own Engine clone (spec §3
// Ownership: "each worker owns an independent clone").
type Engine struct {
	root      *node
	maxDepth  int
	threshold int
	byID      map[HazardID]*Hazard
}

// New builds an Engine over the given root bounding box (typically the
// container rectangle, possibly padded to admit exterior queries) using
// the given depth and per-node split threshold.
func New(root geom.BBox, maxDepth, threshold int) *Engine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		root:      &node{bbox: root},
		maxDepth:  maxDepth,
		threshold: threshold,
		byID:      make(map[HazardID]*Hazard),
	}
}

// Clone deep-copies the engine's hazard set into a fresh tree shaped
// like a rebuild over the same root bbox (spec §3: workers rebuild
// from the master snapshot at the start of every sweep).
func (e *Engine) Clone() *Engine {
	clone := New(e.root.bbox, e.maxDepth, e.threshold)
	for _, h := range e.byID {
		clone.Insert(*h)
	}
	return clone
}

// Insert registers (or re-registers) a hazard.
func (e *Engine) Insert(h Hazard) {
	cp := h
	e.byID[h.ID] = &cp
	e.insertInto(e.root, cp)
}

func (e *Engine) insertInto(n *node, h Hazard) {
	if !n.isLeaf() {
		for _, c := range n.children {
			if c.bbox.Intersects(h.BBox()) {
				e.insertInto(c, h)
			}
		}
		return
	}
	n.entries = append(n.entries, h)
	if len(n.entries) > e.threshold && n.depth < e.maxDepth {
		e.split(n)
	}
}

func (e *Engine) split(n *node) {
	midX := (n.bbox.MinX + n.bbox.MaxX) / 2
	midY := (n.bbox.MinY + n.bbox.MaxY) / 2
	boxes := [4]geom.BBox{
		{MinX: n.bbox.MinX, MinY: midY, MaxX: midX, MaxY: n.bbox.MaxY}, // NW
		{MinX: midX, MinY: midY, MaxX: n.bbox.MaxX, MaxY: n.bbox.MaxY}, // NE
		{MinX: n.bbox.MinX, MinY: n.bbox.MinY, MaxX: midX, MaxY: midY}, // SW
		{MinX: midX, MinY: n.bbox.MinY, MaxX: n.bbox.MaxX, MaxY: midY}, // SE
	}
	for i, b := range boxes {
		n.children[i] = &node{bbox: b, depth: n.depth + 1}
	}
	entries := n.entries
	n.entries = nil
	for _, h := range entries {
		for _, c := range n.children {
			if c.bbox.Intersects(h.BBox()) {
				e.insertInto(c, h)
			}
		}
	}
}

// Remove unregisters a hazard entirely.
func (e *Engine) Remove(id HazardID) {
	h, ok := e.byID[id]
	if !ok {
		return
	}
	delete(e.byID, id)
	e.removeFrom(e.root, id, h.BBox())
}

func (e *Engine) removeFrom(n *node, id HazardID, bbox geom.BBox) {
	if !n.isLeaf() {
		for _, c := range n.children {
			if c.bbox.Intersects(bbox) {
				e.removeFrom(c, id, bbox)
			}
		}
		return
	}
	for i, h := range n.entries {
		if h.ID == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

// QueryBBox returns every distinct hazard whose registered bounding
// box intersects q, excluding the hazard identified by exclude (used
// to treat the item currently being moved as absent, per spec §4.4).
func (e *Engine) QueryBBox(q geom.BBox, exclude HazardID) []Hazard {
	seen := make(map[HazardID]bool)
	var out []Hazard
	e.queryInto(e.root, q, exclude, seen, &out)
	return out
}

func (e *Engine) queryInto(n *node, q geom.BBox, exclude HazardID, seen map[HazardID]bool, out *[]Hazard) {
	if !n.bbox.Intersects(q) {
		return
	}
	if n.isLeaf() {
		for _, h := range n.entries {
			if h.ID == exclude || seen[h.ID] {
				continue
			}
			if h.BBox().Intersects(q) {
				seen[h.ID] = true
				*out = append(*out, h)
			}
		}
		return
	}
	for _, c := range n.children {
		e.queryInto(c, q, exclude, seen, out)
	}
}

// Presence reports how hazard id's registered bbox relates to q: Full
// if q entirely contains the hazard's bbox, Partial if they merely
// intersect, None otherwise. This is a bbox-level approximation; exact
// polygon containment is the collector's own third-stage test.
func (e *Engine) Presence(id HazardID, q geom.BBox) Presence {
	h, ok := e.byID[id]
	if !ok {
		return PresenceNone
	}
	if !h.BBox().Intersects(q) {
		return PresenceNone
	}
	hb := h.BBox()
	if q.MinX <= hb.MinX && q.MinY <= hb.MinY && q.MaxX >= hb.MaxX && q.MaxY >= hb.MaxY {
		return PresenceFull
	}
	return PresencePartial
}

// Hazard returns the registered hazard for id, if present.
func (e *Engine) Hazard(id HazardID) (Hazard, bool) {
	h, ok := e.byID[id]
	if !ok {
		return Hazard{}, false
	}
	return *h, true
}

// Contains runs an exact point-in-polygon test against hazard id's
// registered shape, returning false when id is not registered.
func (e *Engine) Contains(id HazardID, pt geom.Point) bool {
	h, ok := e.byID[id]
	if !ok || h.Surrogate == nil || h.Surrogate.Polygon == nil {
		return false
	}
	return h.Surrogate.Polygon.Contains(pt)
}

// All returns every registered hazard, in no particular order.
func (e *Engine) All() []Hazard {
	out := make([]Hazard, 0, len(e.byID))
	for _, h := range e.byID {
		out = append(out, *h)
	}
	return out
}
