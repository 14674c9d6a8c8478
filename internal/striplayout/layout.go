// Package striplayout is the mutable Layout spec §3 describes: the set
// of placements at a given strip width, backed by a CDE indexing every
// placed-item shape. It owns the container rectangle [0,W]x[0,H] and
// issues the opaque PlacementKeys the collision tracker addresses by.
package striplayout

import (
	"github.com/erlendvik/packfold/internal/cde"
	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

// Layout is the mutable set of placements at a fixed strip width.
type Layout struct {
	width   float64
	height  float64
	tree    *cde.Engine
	items   map[model.PlacementKey]placed
	nextKey model.PlacementKey
}

type placed struct {
	item      *model.Item
	transform geom.Transform
	copy      int
}

// New builds an empty Layout for a container of the given width and
// height.
func New(width, height float64) *Layout {
	l := &Layout{width: width, height: height, items: make(map[model.PlacementKey]placed)}
	l.rebuildTree()
	return l
}

func (l *Layout) rebuildTree() {
	// Pad the tree's root bbox generously beyond the container so items
	// mid-transit (temporarily outside [0,W]) still index correctly.
	pad := l.width + l.height + 1
	root := geom.BBox{MinX: -pad, MinY: -pad, MaxX: l.width + pad, MaxY: l.height + pad}
	tree := cde.New(root, cde.DefaultMaxDepth, cde.DefaultThreshold)
	for pk, p := range l.items {
		tree.Insert(l.hazardFor(pk, p))
	}
	l.tree = tree
}

func (l *Layout) hazardFor(pk model.PlacementKey, p placed) cde.Hazard {
	return cde.Hazard{ID: cde.HazardID(pk), Surrogate: p.item.TransformedSurrogate(p.transform)}
}

// Width returns the current strip width.
func (l *Layout) Width() float64 { return l.width }

// Height returns the container height (fixed for the life of a run).
func (l *Layout) Height() float64 { return l.height }

// ContainerBBox returns [0,W] x [0,H].
func (l *Layout) ContainerBBox() geom.BBox {
	return geom.BBox{MinX: 0, MinY: 0, MaxX: l.width, MaxY: l.height}
}

// Insert places item's copy-th copy at transform and returns its new
// key.
func (l *Layout) Insert(item *model.Item, transform geom.Transform, copy int) model.PlacementKey {
	l.nextKey++
	pk := l.nextKey
	p := placed{item: item, transform: transform, copy: copy}
	l.items[pk] = p
	l.tree.Insert(l.hazardFor(pk, p))
	return pk
}

// Remove deletes a placement entirely.
func (l *Layout) Remove(pk model.PlacementKey) {
	delete(l.items, pk)
	l.tree.Remove(cde.HazardID(pk))
}

// Move removes pk and reinserts the same item at a new transform,
// returning the fresh key the CDE now indexes it under (spec §4.11
// `move_item`: "remove the placement, reinsert with the new transform,
// get a fresh key").
func (l *Layout) Move(pk model.PlacementKey, transform geom.Transform) model.PlacementKey {
	p, ok := l.items[pk]
	if !ok {
		return pk
	}
	l.Remove(pk)
	return l.Insert(p.item, transform, p.copy)
}

// Keys returns every currently placed key, in no particular order.
func (l *Layout) Keys() []model.PlacementKey {
	out := make([]model.PlacementKey, 0, len(l.items))
	for pk := range l.items {
		out = append(out, pk)
	}
	return out
}

// ItemAt returns the item template placed under pk.
func (l *Layout) ItemAt(pk model.PlacementKey) *model.Item {
	return l.items[pk].item
}

// TransformAt returns the current transform of pk.
func (l *Layout) TransformAt(pk model.PlacementKey) geom.Transform {
	return l.items[pk].transform
}

// CopyAt returns which copy of its item template pk refers to,
// carried forward automatically across Move (spec §4.11 `move_item`
// issues a fresh key per move, so copy identity must live on the
// placement itself rather than in an external key-keyed map).
func (l *Layout) CopyAt(pk model.PlacementKey) int {
	return l.items[pk].copy
}

// Surrogate returns pk's surrogate at its current transform, consumed
// by the collision tracker and quantifier without re-deriving it from
// the raw polygon.
func (l *Layout) Surrogate(pk model.PlacementKey) *geom.Surrogate {
	p := l.items[pk]
	return p.item.TransformedSurrogate(p.transform)
}

// CollidingHazards returns every other placed item's hazard whose
// shape collides with pk's current shape, per the quadtree's bbox
// pre-filter (the exact overlap is quantified by the caller). pk
// itself is excluded. The container exterior is handled separately by
// the tracker (see internal/collector decision note in DESIGN.md).
func (l *Layout) CollidingHazards(pk model.PlacementKey) []cde.Hazard {
	sp := l.Surrogate(pk)
	return l.tree.QueryBBox(sp.BBox, cde.HazardID(pk))
}

// Tree exposes the underlying CDE engine for the specialized hazard
// collector, which needs direct query access beyond the LayoutView
// interface's bbox pre-filter.
func (l *Layout) Tree() *cde.Engine { return l.tree }

// Snapshot is an immutable copy of a layout's placements, used for
// rollback (spec §3 Solution).
type Snapshot struct {
	width, height float64
	items         map[model.PlacementKey]placed
	nextKey       model.PlacementKey
}

// Width returns the strip width captured in the snapshot.
func (s *Snapshot) Width() float64 { return s.width }

// Height returns the container height captured in the snapshot.
func (s *Snapshot) Height() float64 { return s.height }

// Placement is one (item, copy, transform) triple, the exported view
// of a placed entry consumed outside this package (SVG export,
// solution output).
type Placement struct {
	Item      *model.Item
	Transform geom.Transform
	Copy      int
}

// Placements returns every placement in the snapshot, in no particular
// order.
func (s *Snapshot) Placements() []Placement {
	out := make([]Placement, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, Placement{Item: p.item, Transform: p.transform, Copy: p.copy})
	}
	return out
}

// Save captures the current placement set.
func (l *Layout) Save() *Snapshot {
	items := make(map[model.PlacementKey]placed, len(l.items))
	for k, v := range l.items {
		items[k] = v
	}
	return &Snapshot{width: l.width, height: l.height, items: items, nextKey: l.nextKey}
}

// Restore replaces the layout's placements with snap's, rebuilding the
// CDE tree from scratch.
func (l *Layout) Restore(snap *Snapshot) {
	l.width = snap.width
	l.height = snap.height
	l.nextKey = snap.nextKey
	l.items = make(map[model.PlacementKey]placed, len(snap.items))
	for k, v := range snap.items {
		l.items[k] = v
	}
	l.rebuildTree()
}

// Clone deep-copies the layout, used by the Separator to give each
// worker an independent clone per sweep (spec §3 Ownership).
func (l *Layout) Clone() *Layout {
	clone := &Layout{width: l.width, height: l.height, nextKey: l.nextKey}
	clone.items = make(map[model.PlacementKey]placed, len(l.items))
	for k, v := range l.items {
		clone.items[k] = v
	}
	clone.rebuildTree()
	return clone
}

// ChangeStripWidth translates every item whose centroid lies strictly
// right of splitX by (newWidth-oldWidth, 0), then sets the new width
// and rebuilds the CDE (spec §4.11 `change_strip_width`).
func (l *Layout) ChangeStripWidth(newWidth float64, splitX *float64) {
	sx := l.width / 2
	if splitX != nil {
		sx = *splitX
	}
	delta := newWidth - l.width
	for pk, p := range l.items {
		centroid := p.transform.Apply(p.item.Shape.Centroid())
		if centroid.X > sx {
			p.transform = p.transform.Translated(delta, 0)
			l.items[pk] = p
		}
	}
	l.width = newWidth
	l.rebuildTree()
}

// FitToMinimumWidth shrinks the strip to the smallest width containing
// every placement's bounding box, used by the LBF constructor after
// all items are placed (spec §4.10).
func (l *Layout) FitToMinimumWidth() {
	maxX := 0.0
	for _, p := range l.items {
		bbox := p.item.Shape.Transformed(p.transform).BBox()
		if bbox.MaxX > maxX {
			maxX = bbox.MaxX
		}
	}
	l.width = maxX
	l.rebuildTree()
}
